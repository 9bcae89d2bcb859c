package family

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/vision/internal/platform/request"
	"github.com/taibuivan/vision/internal/platform/respond"
	"github.com/taibuivan/vision/pkg/pagination"
)

// Handler exposes families and family variants over HTTP.
type Handler struct {
	service *Service
}

// NewHandler creates the family HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the family endpoints on a fresh router.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.create)
	router.Get("/", handler.list)

	router.Route("/{familyID}", func(router chi.Router) {
		router.Get("/", handler.get)
		router.Put("/", handler.update)
		router.Delete("/", handler.delete)

		router.Route("/variants", func(router chi.Router) {
			router.Post("/", handler.createVariant)
			router.Get("/", handler.listVariants)

			router.Route("/{variantID}", func(router chi.Router) {
				router.Get("/", handler.getVariant)
				router.Put("/", handler.updateVariant)
				router.Delete("/", handler.deleteVariant)
			})
		})
	})

	return router
}

// # Family Endpoints

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	family, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, family)
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	families, meta, err := handler.service.List(request.Context(), pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, families, meta)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	familyID, err := requestutil.RequiredID(request, "familyID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	family, err := handler.service.Get(request.Context(), familyID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, family)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	familyID, err := requestutil.RequiredID(request, "familyID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	family, err := handler.service.Update(request.Context(), familyID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, family)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	familyID, err := requestutil.RequiredID(request, "familyID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), familyID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Variant Endpoints

func (handler *Handler) createVariant(writer http.ResponseWriter, request *http.Request) {
	familyID, err := requestutil.RequiredID(request, "familyID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input VariantInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	variant, err := handler.service.CreateVariant(request.Context(), familyID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, variant)
}

func (handler *Handler) listVariants(writer http.ResponseWriter, request *http.Request) {
	familyID, err := requestutil.RequiredID(request, "familyID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	variants, err := handler.service.ListVariants(request.Context(), familyID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, variants)
}

func (handler *Handler) getVariant(writer http.ResponseWriter, request *http.Request) {
	variantID, err := requestutil.RequiredID(request, "variantID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	variant, err := handler.service.GetVariant(request.Context(), variantID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, variant)
}

func (handler *Handler) updateVariant(writer http.ResponseWriter, request *http.Request) {
	variantID, err := requestutil.RequiredID(request, "variantID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input VariantUpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	variant, err := handler.service.UpdateVariant(request.Context(), variantID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, variant)
}

func (handler *Handler) deleteVariant(writer http.ResponseWriter, request *http.Request) {
	variantID, err := requestutil.RequiredID(request, "variantID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteVariant(request.Context(), variantID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
