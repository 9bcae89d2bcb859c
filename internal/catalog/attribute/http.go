package attribute

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/vision/internal/platform/request"
	"github.com/taibuivan/vision/internal/platform/respond"
	"github.com/taibuivan/vision/pkg/convert"
	"github.com/taibuivan/vision/pkg/pagination"
)

// Handler exposes the attribute catalog over HTTP.
type Handler struct {
	service *Service
}

// NewHandler creates the attribute HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the attribute endpoints on a fresh router.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.create)
	router.Get("/", handler.list)

	router.Route("/{attributeID}", func(router chi.Router) {
		router.Get("/", handler.get)
		router.Put("/", handler.update)
		router.Delete("/", handler.delete)

		router.Route("/options", func(router chi.Router) {
			router.Post("/", handler.addOption)
			router.Get("/", handler.listOptions)
			router.Put("/", handler.replaceOptions)
			router.Put("/reorder", handler.reorderOptions)

			router.Route("/{optionID}", func(router chi.Router) {
				router.Get("/", handler.getOption)
				router.Put("/", handler.updateOption)
				router.Delete("/", handler.deleteOption)
			})
		})
	})

	return router
}

// # Attribute Endpoints

// create handles POST /attributes.
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	attribute, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, attribute)
}

// list handles GET /attributes with optional search and dimension filters.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()
	filter := Filter{
		Search:        query.Get("search"),
		Type:          query.Get("type"),
		BackendType:   query.Get("backend_type"),
		GroupCode:     query.Get("group_code"),
		IsLocalizable: convert.ToBoolPtr(query.Get("is_localizable")),
		IsScopable:    convert.ToBoolPtr(query.Get("is_scopable")),
	}

	attributes, meta, err := handler.service.List(request.Context(), filter, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, attributes, meta)
}

// get handles GET /attributes/{attributeID}.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	attributeID, err := requestutil.RequiredID(request, "attributeID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	attribute, err := handler.service.Get(request.Context(), attributeID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, attribute)
}

// update handles PUT /attributes/{attributeID}.
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	attributeID, err := requestutil.RequiredID(request, "attributeID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	attribute, err := handler.service.Update(request.Context(), attributeID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, attribute)
}

// delete handles DELETE /attributes/{attributeID}.
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	attributeID, err := requestutil.RequiredID(request, "attributeID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), attributeID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Option Endpoints

// addOption handles POST /attributes/{attributeID}/options.
func (handler *Handler) addOption(writer http.ResponseWriter, request *http.Request) {
	attributeID, err := requestutil.RequiredID(request, "attributeID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input OptionInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	option, err := handler.service.AddOption(request.Context(), attributeID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, option)
}

// listOptions handles GET /attributes/{attributeID}/options.
func (handler *Handler) listOptions(writer http.ResponseWriter, request *http.Request) {
	attributeID, err := requestutil.RequiredID(request, "attributeID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	options, err := handler.service.ListOptions(request.Context(), attributeID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, options)
}

// replaceOptions handles PUT /attributes/{attributeID}/options, swapping the
// whole option set.
func (handler *Handler) replaceOptions(writer http.ResponseWriter, request *http.Request) {
	attributeID, err := requestutil.RequiredID(request, "attributeID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var inputs []OptionInput
	if err := requestutil.DecodeJSON(request, &inputs); err != nil {
		respond.Error(writer, request, err)
		return
	}

	options, err := handler.service.ReplaceOptions(request.Context(), attributeID, inputs)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, options)
}

// reorderOptionsRequest is the body of PUT /attributes/{attributeID}/options/reorder.
type reorderOptionsRequest struct {
	OptionIDs []string `json:"option_ids"`
}

// reorderOptions handles PUT /attributes/{attributeID}/options/reorder.
func (handler *Handler) reorderOptions(writer http.ResponseWriter, request *http.Request) {
	attributeID, err := requestutil.RequiredID(request, "attributeID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body reorderOptionsRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	options, err := handler.service.ReorderOptions(request.Context(), attributeID, body.OptionIDs)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, options)
}

// getOption handles GET /attributes/{attributeID}/options/{optionID}.
func (handler *Handler) getOption(writer http.ResponseWriter, request *http.Request) {
	attributeID, err := requestutil.RequiredID(request, "attributeID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	optionID, err := requestutil.RequiredID(request, "optionID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	option, err := handler.service.GetOption(request.Context(), attributeID, optionID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, option)
}

// updateOption handles PUT /attributes/{attributeID}/options/{optionID}.
func (handler *Handler) updateOption(writer http.ResponseWriter, request *http.Request) {
	attributeID, err := requestutil.RequiredID(request, "attributeID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	optionID, err := requestutil.RequiredID(request, "optionID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input OptionUpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	option, err := handler.service.UpdateOption(request.Context(), attributeID, optionID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, option)
}

// deleteOption handles DELETE /attributes/{attributeID}/options/{optionID}.
func (handler *Handler) deleteOption(writer http.ResponseWriter, request *http.Request) {
	attributeID, err := requestutil.RequiredID(request, "attributeID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	optionID, err := requestutil.RequiredID(request, "optionID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteOption(request.Context(), attributeID, optionID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
