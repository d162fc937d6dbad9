package room

import (
	"net/http"

	"niseko/infras/otel"
	"niseko/internal/domains/room/service"
	"niseko/shared/constant"
	"niseko/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Room
	otel    otel.Otel
}

func New(service service.Room, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/rooms", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetRooms)
		routerGroup.Get("/match", handler.MatchRoom)
		routerGroup.Get("/{number}", handler.GetRoomByNumber)
	})
}

// GetRooms lists the room catalog.
// @Summary Get all rooms
// @Description List every room in the catalog in matching precedence order.
// @Tags Room
// @Produce json
// @Success 200 {object} response.Data[dto.GetRoomsResponse] "List of rooms"
// @Router /v1/rooms [get]
func (handler *Handler) GetRooms(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRooms")
	defer scope.End()

	rooms := handler.service.GetAll(ctx)

	response.WithJSON(w, http.StatusOK, rooms)
}

// MatchRoom resolves a free-text preference to a room.
// @Summary Match a room preference
// @Description Resolve a free-text room preference the same way check-in does.
// @Tags Room
// @Produce json
// @Param preference query string false "Free-text room preference"
// @Success 200 {object} response.Data[dto.MatchResponse] "Matched room"
// @Router /v1/rooms/match [get]
func (handler *Handler) MatchRoom(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".MatchRoom")
	defer scope.End()

	preference := r.URL.Query().Get(constant.RequestParamPreference)

	res := handler.service.Match(ctx, preference)

	scope.SetAttribute("room.number", res.Room.Number)

	response.WithJSON(w, http.StatusOK, res)
}

// GetRoomByNumber retrieves a room by its number.
// @Summary Get a room by number
// @Description Retrieve a catalog room by its room number.
// @Tags Room
// @Produce json
// @Param number path string true "Room number"
// @Success 200 {object} response.Data[dto.RoomResponse] "Room details"
// @Failure 404 {object} response.Error
// @Router /v1/rooms/{number} [get]
func (handler *Handler) GetRoomByNumber(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRoomByNumber")
	defer scope.End()

	number := chi.URLParam(r, constant.RequestParamNumber)

	room, err := handler.service.Get(ctx, number)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("number", number).Msg("failed to get room by number")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, room)
}
