package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-api/internal/models"
	"github.com/noah-isme/school-api/pkg/response"
)

// crudService is the contract shared by every entity service. L is the list
// item type, D the detail type, C and U the create and update payloads.
type crudService[L, D, C, U any] interface {
	List(ctx context.Context, q models.ListQuery) ([]L, *models.Pagination, error)
	Get(ctx context.Context, id int64) (*D, error)
	Create(ctx context.Context, req C) (*D, error)
	Update(ctx context.Context, id int64, req U) (*D, error)
	Delete(ctx context.Context, id int64) error
}

// crud implements the five REST actions on top of a crudService.
type crud[L, D, C, U any] struct {
	svc    crudService[L, D, C, U]
	entity string
}

func newCRUD[L, D, C, U any](svc crudService[L, D, C, U], entity string) crud[L, D, C, U] {
	return crud[L, D, C, U]{svc: svc, entity: entity}
}

func (h crud[L, D, C, U]) list(c *gin.Context) {
	items, pagination, err := h.svc.List(c.Request.Context(), listQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

func (h crud[L, D, C, U]) get(c *gin.Context) {
	id, ok := pathID(c, h.entity)
	if !ok {
		return
	}
	item, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, item)
}

func (h crud[L, D, C, U]) create(c *gin.Context) {
	var req C
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

func (h crud[L, D, C, U]) update(c *gin.Context) {
	id, ok := pathID(c, h.entity)
	if !ok {
		return
	}
	var req U
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, item)
}

func (h crud[L, D, C, U]) delete(c *gin.Context) {
	id, ok := pathID(c, h.entity)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Resource is the route surface of an entity handler.
type Resource interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// RegisterResource mounts the REST routes of h under path. PUT and PATCH both update.
func RegisterResource(rg *gin.RouterGroup, path string, h Resource, middleware ...gin.HandlerFunc) {
	group := rg.Group(path, middleware...)
	group.GET("", h.List)
	group.POST("", h.Create)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.PATCH("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
}
