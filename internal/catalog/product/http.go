package product

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/vision/internal/platform/request"
	"github.com/taibuivan/vision/internal/platform/respond"
	"github.com/taibuivan/vision/pkg/convert"
	"github.com/taibuivan/vision/pkg/pagination"
)

// Handler exposes products over HTTP.
type Handler struct {
	service *Service
}

// NewHandler creates the product HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the product endpoints on a fresh router. valueRoutes, when
// non-nil, is mounted at /{productID}/values.
func (handler *Handler) Routes(valueRoutes chi.Router) chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.create)
	router.Get("/", handler.list)

	router.Route("/{productID}", func(router chi.Router) {
		router.Get("/", handler.get)
		router.Put("/", handler.update)
		router.Delete("/", handler.delete)

		if valueRoutes != nil {
			router.Mount("/values", valueRoutes)
		}
	})

	return router
}

// create handles POST /products.
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	product, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, product)
}

// list handles GET /products with SKU search, model, and enabled filters.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()
	filter := Filter{
		Search:         query.Get("search"),
		ProductModelID: query.Get("product_model_id"),
		Enabled:        convert.ToBoolPtr(query.Get("enabled")),
	}

	products, meta, err := handler.service.List(request.Context(), filter, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, products, meta)
}

// get handles GET /products/{productID}.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	productID, err := requestutil.RequiredID(request, "productID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	product, err := handler.service.Get(request.Context(), productID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, product)
}

// update handles PUT /products/{productID}.
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	productID, err := requestutil.RequiredID(request, "productID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	product, err := handler.service.Update(request.Context(), productID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, product)
}

// delete handles DELETE /products/{productID}.
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	productID, err := requestutil.RequiredID(request, "productID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), productID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
