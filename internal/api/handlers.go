package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"shareit/internal/metrics"
	"shareit/internal/models"
	"shareit/internal/worker"
)

// --- users ---

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	user, err := s.users.CreateUser(r.Context(), body.Name, body.Email)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleGetAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.GetAllUsers(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	user, err := s.users.GetUserByID(r.Context(), id)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var upd models.UserUpdate
	if !decodeBody(w, r, &upd) {
		return
	}

	user, err := s.users.UpdateUser(r.Context(), id, upd)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.users.DeleteUser(r.Context(), id); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- items ---

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := callerID(w, r)
	if !ok {
		return
	}
	var in models.ItemCreate
	if !decodeBody(w, r, &in) {
		return
	}

	item, err := s.items.CreateItem(r.Context(), ownerID, in)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := callerID(w, r)
	if !ok {
		return
	}
	itemID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var upd models.ItemUpdate
	if !decodeBody(w, r, &upd) {
		return
	}

	item, err := s.items.UpdateItem(r.Context(), ownerID, itemID, upd)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	itemID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	item, err := s.items.GetItem(r.Context(), userID, itemID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleGetAllItems(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := callerID(w, r)
	if !ok {
		return
	}
	from, size, ok := pageParams(w, r)
	if !ok {
		return
	}

	items, err := s.items.GetAllItems(r.Context(), ownerID, from, size)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleSearchItems(w http.ResponseWriter, r *http.Request) {
	if _, ok := callerID(w, r); !ok {
		return
	}
	from, size, ok := pageParams(w, r)
	if !ok {
		return
	}

	items, err := s.items.SearchItems(r.Context(), r.URL.Query().Get("text"), from, size)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	authorID, ok := callerID(w, r)
	if !ok {
		return
	}
	itemID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body struct {
		Text string `json:"text"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	comment, err := s.items.CreateComment(r.Context(), authorID, itemID, body.Text)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

// --- bookings ---

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	var req models.BookingRequest
	if !decodeBody(w, r, &req) {
		return
	}

	booking, err := s.bookings.CreateBooking(r.Context(), userID, req)
	if err != nil {
		s.respondError(w, err)
		return
	}
	metrics.IncBooking(booking.Status)
	writeJSON(w, http.StatusCreated, booking)
}

func (s *Server) handleChangeBookingStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	bookingID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	approved, err := strconv.ParseBool(r.URL.Query().Get("approved"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "approved query parameter is required")
		return
	}

	booking, err := s.bookings.ChangeStatus(r.Context(), userID, bookingID, approved)
	if err != nil {
		s.respondError(w, err)
		return
	}
	metrics.IncBooking(booking.Status)
	writeJSON(w, http.StatusOK, booking)
}

func (s *Server) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	bookingID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	booking, err := s.bookings.GetBookingByID(r.Context(), userID, bookingID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *Server) handleGetBookingsForBooker(w http.ResponseWriter, r *http.Request) {
	s.handleBookingList(w, r, s.bookings.GetAllForBooker)
}

func (s *Server) handleGetBookingsForOwner(w http.ResponseWriter, r *http.Request) {
	s.handleBookingList(w, r, s.bookings.GetAllForOwner)
}

type bookingListFunc func(ctx context.Context, userID int64, state string, from, size *int) ([]models.Booking, error)

func (s *Server) handleBookingList(w http.ResponseWriter, r *http.Request, list bookingListFunc) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	from, size, ok := pageParams(w, r)
	if !ok {
		return
	}

	state := r.URL.Query().Get("state")
	if state == "" {
		state = models.StateAll
	}

	bookings, err := list(r.Context(), userID, state, from, size)
	if err != nil {
		s.respondError(w, err)
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	writeJSON(w, http.StatusOK, bookings)
}

// --- requests ---

func (s *Server) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	var body struct {
		Description string `json:"description"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	request, err := s.requests.CreateRequest(r.Context(), userID, body.Description)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, request)
}

func (s *Server) handleGetOwnRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	requests, err := s.requests.GetOwnRequests(r.Context(), userID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

func (s *Server) handleGetOtherRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	from, size, ok := pageParams(w, r)
	if !ok {
		return
	}

	requests, err := s.requests.GetOtherRequests(r.Context(), userID, from, size)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

func (s *Server) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	requestID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	request, err := s.requests.GetRequestByID(r.Context(), userID, requestID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, request)
}

// --- admin ---

func (s *Server) handleEnqueueExport(w http.ResponseWriter, r *http.Request) {
	var body struct {
		From time.Time `json:"from"`
		To   time.Time `json:"to"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.From.IsZero() || body.To.IsZero() {
		writeError(w, http.StatusBadRequest, "from and to are required")
		return
	}

	jobID, err := s.exports.Enqueue(worker.ExportJob{From: body.From, To: body.To})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"job_id": jobID})
}
