package handler

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-api/internal/middleware"
	"github.com/noah-isme/school-api/internal/models"
	appErrors "github.com/noah-isme/school-api/pkg/errors"
	"github.com/noah-isme/school-api/pkg/response"
)

const (
	pageParam    = "page"
	perPageParam = "itemsPerPage"
)

var errMalformedJSON = appErrors.Clone(appErrors.ErrBadRequest, "Malformed JSON payload")

// pathID parses the :id segment. Anything but a positive integer cannot match
// a row, so it is answered with the entity's 404.
func pathID(c *gin.Context, entity string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, entity+" not found"))
		return 0, false
	}
	return id, true
}

// listQuery collects filters and pagination from the query string. Pagination
// only applies when page or itemsPerPage is present.
func listQuery(c *gin.Context) models.ListQuery {
	q := models.ListQuery{
		Filters: make(map[string]string),
		Page:    1,
		PerPage: models.DefaultItemsPerPage,
	}
	for key, values := range c.Request.URL.Query() {
		if len(values) == 0 {
			continue
		}
		value := strings.TrimSpace(values[0])
		switch key {
		case pageParam:
			q.Paginated = true
			if page, err := strconv.Atoi(value); err == nil && page > 0 {
				q.Page = page
			}
		case perPageParam:
			q.Paginated = true
			if perPage, err := strconv.Atoi(value); err == nil && perPage > 0 {
				q.PerPage = perPage
			}
		default:
			if value != "" {
				q.Filters[key] = value
			}
		}
	}
	if q.PerPage > models.MaxItemsPerPage {
		q.PerPage = models.MaxItemsPerPage
	}
	return q
}

// bindJSON decodes the request body into dest. An empty body decodes to the
// zero value so validation can report the missing fields.
func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, appErrors.Wrap(err, errMalformedJSON.Code, errMalformedJSON.Status, errMalformedJSON.Message))
		return false
	}
	return true
}

func currentUser(c *gin.Context) *models.User {
	user, _ := middleware.CurrentUser(c)
	return user
}

func requestMeta(c *gin.Context) models.RequestMeta {
	return models.RequestMeta{IP: c.ClientIP(), UserAgent: c.GetHeader("User-Agent")}
}
