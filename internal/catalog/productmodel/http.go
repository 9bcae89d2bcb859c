package productmodel

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/vision/internal/platform/request"
	"github.com/taibuivan/vision/internal/platform/respond"
	"github.com/taibuivan/vision/pkg/pagination"
)

// Handler exposes the product model hierarchy over HTTP. Value sub-routes
// are mounted by the server so this handler stays unaware of the value store.
type Handler struct {
	service *Service
}

// NewHandler creates the product model HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the product model endpoints on a fresh router. valueRoutes,
// when non-nil, is mounted at /{modelID}/values.
func (handler *Handler) Routes(valueRoutes chi.Router) chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.create)
	router.Get("/", handler.list)

	router.Route("/{modelID}", func(router chi.Router) {
		router.Get("/", handler.get)
		router.Put("/", handler.update)
		router.Delete("/", handler.delete)
		router.Get("/children", handler.children)

		if valueRoutes != nil {
			router.Mount("/values", valueRoutes)
		}
	})

	return router
}

// create handles POST /product-models.
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	model, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, model)
}

// list handles GET /product-models with search and hierarchy filters.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()
	filter := Filter{
		Search:          query.Get("search"),
		FamilyVariantID: query.Get("family_variant_id"),
		ParentID:        query.Get("parent_id"),
	}

	models, meta, err := handler.service.List(request.Context(), filter, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, models, meta)
}

// get handles GET /product-models/{modelID}.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	modelID, err := requestutil.RequiredID(request, "modelID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	model, err := handler.service.Get(request.Context(), modelID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, model)
}

// update handles PUT /product-models/{modelID}.
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	modelID, err := requestutil.RequiredID(request, "modelID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	model, err := handler.service.Update(request.Context(), modelID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, model)
}

// delete handles DELETE /product-models/{modelID}.
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	modelID, err := requestutil.RequiredID(request, "modelID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), modelID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// children handles GET /product-models/{modelID}/children.
func (handler *Handler) children(writer http.ResponseWriter, request *http.Request) {
	modelID, err := requestutil.RequiredID(request, "modelID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	children, meta, err := handler.service.GetChildren(request.Context(), modelID, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, children, meta)
}
