package value

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/vision/internal/platform/request"
	"github.com/taibuivan/vision/internal/platform/respond"
)

// Handler exposes the value store over HTTP. Entity-scoped routes are
// mounted under both the product and product model routers; the standalone
// routes address values by their own ID.
type Handler struct {
	service *Service
}

// NewHandler creates the value HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the entity-independent value endpoints (/values/...).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Delete("/{valueID}", handler.delete)
	return router
}

// EntityRoutes mounts set and list endpoints for one entity kind. paramName
// is the URL parameter of the parent router that carries the entity ID.
func (handler *Handler) EntityRoutes(entityType EntityType, paramName string) chi.Router {
	router := chi.NewRouter()
	router.Put("/", handler.set(entityType, paramName))
	router.Get("/", handler.list(entityType, paramName))
	return router
}

// set handles PUT .../{id}/values.
func (handler *Handler) set(entityType EntityType, paramName string) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		entityID, err := requestutil.RequiredID(request, paramName)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		var input SetInput
		if err := requestutil.DecodeJSON(request, &input); err != nil {
			respond.Error(writer, request, err)
			return
		}

		row, err := handler.service.Set(request.Context(),
			EntityRef{Type: entityType, ID: entityID}, input)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		respond.OK(writer, row)
	}
}

// list handles GET .../{id}/values with optional attribute, scope, and
// locale filters.
func (handler *Handler) list(entityType EntityType, paramName string) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		entityID, err := requestutil.RequiredID(request, paramName)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		query := request.URL.Query()
		filter := Filter{
			AttributeID: query.Get("attribute_id"),
			Scope:       query.Get("scope"),
			Locale:      query.Get("locale"),
		}

		values, err := handler.service.List(request.Context(),
			EntityRef{Type: entityType, ID: entityID}, filter)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		respond.OK(writer, values)
	}
}

// delete handles DELETE /values/{valueID}.
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	valueID, err := requestutil.RequiredID(request, "valueID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), valueID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
