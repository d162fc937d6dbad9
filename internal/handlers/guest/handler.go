package guest

import (
	"net/http"

	"niseko/infras/otel"
	"niseko/internal/domains/guest/model"
	"niseko/internal/domains/guest/model/dto"
	"niseko/internal/domains/guest/service"
	"niseko/shared/constant"
	gDto "niseko/shared/dto"
	"niseko/shared/failure"
	"niseko/shared/useragent"
	"niseko/shared/validator"
	"niseko/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Guest
	otel    otel.Otel
}

func New(service service.Guest, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/guests", func(routerGroup chi.Router) {
		routerGroup.Post("/check-in", handler.CheckIn)
		routerGroup.Post("/preview", handler.Preview)
		routerGroup.Get("/", handler.GetGuests)

		routerGroup.Get("/me/session", handler.GetMySession)
		routerGroup.Post("/me/check-out", handler.CheckOutMe)

		routerGroup.Get("/{guestId}", handler.GetGuestByID)
		routerGroup.Get("/{guestId}/session", handler.GetSession)
		routerGroup.Post("/{guestId}/check-out", handler.CheckOut)
	})
}

// CheckIn registers a guest and returns the derived session.
// @Summary Check in a guest
// @Description Turn the answers collected by the check-in agent into a guest session and persist it.
// @Tags Guest
// @Accept json
// @Produce json
// @Param request body dto.CheckInRequest true "Registered guest data"
// @Success 201 {object} response.Data[dto.CheckInResponse] "Guest checked in"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/guests/check-in [post]
func (handler *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CheckIn")
	defer scope.End()

	req := dto.CheckInRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	device := useragent.Parse(r.Header.Get(constant.RequestHeaderUserAgent))

	res, err := handler.service.CheckIn(ctx, req, device.Source())
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("guest_id", req.GuestID).Msg("failed to check in guest")

		response.WithError(w, err)

		return
	}

	scope.SetAttributes(map[string]any{
		"guest.id":     req.GuestID,
		"guest.room":   res.Session.Room.Number,
		"guest.device": device.Type,
	})
	scope.AddEvent("Guest checked in successfully")

	response.WithJSON(w, http.StatusCreated, res)
}

// Preview derives a session without saving it.
// @Summary Preview a guest session
// @Description Derive the session check-in would produce, without persisting anything. Codes and passwords differ on every call.
// @Tags Guest
// @Accept json
// @Produce json
// @Param request body dto.CheckInRequest true "Registered guest data"
// @Success 200 {object} response.Data[dto.PreviewResponse] "Derived session"
// @Failure 400 {object} response.Error
// @Router /v1/guests/preview [post]
func (handler *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Preview")
	defer scope.End()

	req := dto.CheckInRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Preview(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to preview guest session")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetGuests lists registrations for staff.
// @Summary Get all registrations
// @Description List guest registrations with filtering and pagination.
// @Tags Guest
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param name query string false "Filter by guest name"
// @Param email query string false "Filter by email"
// @Param status query string false "Filter by status (checked_in, checked_out)"
// @Param room_number query string false "Filter by room number"
// @Success 200 {object} response.Data[dto.GetRegistrationsResponse] "List of registrations"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/guests [get]
// @Security BearerAuth
func (handler *Handler) GetGuests(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetGuests")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	query := r.URL.Query()

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldName,
				Operator: gDto.FilterOperatorLike,
				Value:    query.Get(model.FieldName),
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldEmail,
				Operator: gDto.FilterOperatorLike,
				Value:    query.Get(model.FieldEmail),
				Table:    model.TableName,
			},
		},
	}

	if status := query.Get(model.FieldStatus); status != constant.Empty {
		if err := validator.ValidateVar(status, "oneof="+model.StatusCheckedIn+" "+model.StatusCheckedOut); err != nil {
			scope.TraceError(err)

			response.WithError(w, failure.BadRequestFromString("status must be checked_in or checked_out"))

			return
		}

		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    model.TableName,
		})
	}

	if roomNumber := query.Get(model.FieldRoomNumber); roomNumber != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldRoomNumber,
			Operator: gDto.FilterOperatorEq,
			Value:    roomNumber,
			Table:    model.TableName,
		})
	}

	guests, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get registrations")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, guests)
}

// GetGuestByID retrieves a single registration.
// @Summary Get a registration
// @Description Retrieve the registration stored for a guest id.
// @Tags Guest
// @Produce json
// @Param guestId path string true "Guest ID"
// @Success 200 {object} response.Data[dto.RegistrationResponse] "Registration details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/guests/{guestId} [get]
// @Security BearerAuth
func (handler *Handler) GetGuestByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetGuestByID")
	defer scope.End()

	guestID := chi.URLParam(r, constant.RequestParamGuestID)

	registration, err := handler.service.Get(ctx, guestID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("guest_id", guestID).Msg("failed to get registration")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, registration)
}

// GetSession returns a guest's portal session for staff.
// @Summary Get a guest session
// @Description Retrieve the portal session of a checked-in guest.
// @Tags Guest
// @Produce json
// @Param guestId path string true "Guest ID"
// @Success 200 {object} response.Data[model.GuestSession] "Guest session"
// @Failure 404 {object} response.Error
// @Failure 410 {object} response.Error
// @Router /v1/guests/{guestId}/session [get]
// @Security BearerAuth
func (handler *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	handler.getSession(w, r, chi.URLParam(r, constant.RequestParamGuestID))
}

// GetMySession returns the session of the guest holding the token.
// @Summary Get my session
// @Description Retrieve the portal session of the authenticated guest.
// @Tags Guest
// @Produce json
// @Success 200 {object} response.Data[model.GuestSession] "Guest session"
// @Failure 401 {object} response.Error
// @Failure 410 {object} response.Error
// @Router /v1/guests/me/session [get]
// @Security BearerAuth
func (handler *Handler) GetMySession(w http.ResponseWriter, r *http.Request) {
	guestID, _ := r.Context().Value(constant.ContextKeyUserID).(string)
	if guestID == constant.Empty {
		response.WithError(w, failure.Unauthorized("missing guest identity"))

		return
	}

	handler.getSession(w, r, guestID)
}

func (handler *Handler) getSession(w http.ResponseWriter, r *http.Request, guestID string) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSession")
	defer scope.End()

	guestSession, err := handler.service.GetSession(ctx, guestID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("guest_id", guestID).Msg("failed to get guest session")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, guestSession)
}

// CheckOut ends a guest's stay.
// @Summary Check out a guest
// @Description Mark the registration checked out and drop the cached session.
// @Tags Guest
// @Produce json
// @Param guestId path string true "Guest ID"
// @Success 200 {object} response.Message "Guest checked out successfully"
// @Failure 404 {object} response.Error
// @Failure 410 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/guests/{guestId}/check-out [post]
// @Security BearerAuth
func (handler *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	handler.checkOut(w, r, chi.URLParam(r, constant.RequestParamGuestID))
}

// CheckOutMe lets a guest end their own stay from the portal.
// @Summary Check out myself
// @Description Check out the authenticated guest.
// @Tags Guest
// @Produce json
// @Success 200 {object} response.Message "Guest checked out successfully"
// @Failure 401 {object} response.Error
// @Failure 410 {object} response.Error
// @Router /v1/guests/me/check-out [post]
// @Security BearerAuth
func (handler *Handler) CheckOutMe(w http.ResponseWriter, r *http.Request) {
	guestID, _ := r.Context().Value(constant.ContextKeyUserID).(string)
	if guestID == constant.Empty {
		response.WithError(w, failure.Unauthorized("missing guest identity"))

		return
	}

	handler.checkOut(w, r, guestID)
}

func (handler *Handler) checkOut(w http.ResponseWriter, r *http.Request, guestID string) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CheckOut")
	defer scope.End()

	if err := handler.service.CheckOut(ctx, guestID); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("guest_id", guestID).Msg("failed to check out guest")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Guest checked out by " + user)

	response.WithMessage(w, http.StatusOK, "Guest checked out successfully")
}
