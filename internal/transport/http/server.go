// package http implements the HTTP transport layer for the service.
// It handles incoming requests, decodes them, calls the appropriate service
// methods, and encodes the responses.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vecinoapp/favores-service/internal/apperrors"
	"github.com/vecinoapp/favores-service/internal/auth"
	"github.com/vecinoapp/favores-service/internal/domain"
	"github.com/vecinoapp/favores-service/internal/service"
	"github.com/vecinoapp/favores-service/internal/validation"
	"github.com/vecinoapp/favores-service/pkg/logger/sl"
)

// Server holds the dependencies for the HTTP server, including the logger
// and service interfaces.
type Server struct {
	log                 *slog.Logger
	tokens              *auth.Manager
	userService         service.UserService
	favorService        service.FavorService
	chatService         service.ChatService
	ratingService       service.RatingService
	notificationService service.NotificationService
}

// NewServer creates a new instance of the HTTP server.
func NewServer(
	log *slog.Logger,
	tokens *auth.Manager,
	us service.UserService,
	fs service.FavorService,
	cs service.ChatService,
	rs service.RatingService,
	ns service.NotificationService,
) *Server {
	return &Server{
		log:                 log,
		tokens:              tokens,
		userService:         us,
		favorService:        fs,
		chatService:         cs,
		ratingService:       rs,
		notificationService: ns,
	}
}

// Routes sets up the router with all middleware and API endpoints.
func (s *Server) Routes() http.Handler {
	mux := chi.NewRouter()

	mux.Use(s.requestID)
	mux.Use(s.logRequest)
	mux.Use(s.metricsMiddleware)

	mux.Handle("/metrics", promhttp.Handler())

	mux.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.register)
		r.Post("/auth/login", s.login)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			r.Get("/users/me", s.getOwnProfile)
			r.Patch("/users/me", s.updateProfile)
			r.Get("/users/{userID}", s.getProfile)
			r.Get("/users/{userID}/stats", s.getStats)

			r.Post("/favors", s.publishFavor)
			r.Get("/favors", s.listFavors)
			r.Get("/favors/{favorID}", s.getFavor)
			r.Post("/favors/{favorID}/apply", s.applyToFavor)
			r.Get("/favors/{favorID}/applicants", s.listApplicants)
			r.Post("/favors/{favorID}/accept", s.acceptApplicant)
			r.Post("/favors/{favorID}/complete", s.completeFavor)
			r.Post("/favors/{favorID}/rate", s.rateFavor)

			r.Post("/chats", s.sendMessage)
			r.Get("/chats/{threadID}/messages", s.listMessages)
			r.Post("/chats/{threadID}/read", s.markThreadRead)
			r.Get("/chats/{threadID}/ws", s.streamMessages)

			r.Get("/conversations", s.listConversations)
			r.Get("/conversations/ws", s.streamConversations)

			r.Get("/notifications", s.listNotifications)
			r.Post("/notifications/{notificationID}/read", s.markNotificationRead)
		})
	})

	return mux
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.register"

	var req registerRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	user, token, err := s.userService.Register(r.Context(), service.RegisterInput{
		Email:        req.Email,
		Password:     req.Password,
		FullName:     req.FullName,
		Location:     req.Location,
		Presentation: req.Presentation,
		Gender:       req.Gender,
		Phone:        req.Phone,
	})
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusCreated, authResponse{Token: token, User: toUserResponse(user)})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.login"

	var req loginRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	user, token, err := s.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, authResponse{Token: token, User: toUserResponse(user)})
}

func (s *Server) getOwnProfile(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.getOwnProfile"

	profile, err := s.userService.Profile(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, toProfileResponse(profile))
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.getProfile"

	profile, err := s.userService.Profile(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, toProfileResponse(profile))
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.updateProfile"

	var req updateProfileRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	user, err := s.userService.UpdateProfile(r.Context(), userIDFromContext(r.Context()), domain.ProfileUpdate{
		FullName:     req.FullName,
		Location:     req.Location,
		Presentation: req.Presentation,
		Gender:       req.Gender,
		Phone:        req.Phone,
	})
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]userResponse{"user": toUserResponse(user)})
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.getStats"

	stats, err := s.ratingService.Stats(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]statsResponse{"stats": toStatsResponse(stats)})
}

func (s *Server) publishFavor(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.publishFavor"

	var req publishFavorRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	favor, err := s.favorService.Publish(r.Context(), userIDFromContext(r.Context()), service.PublishFavorInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Location:    req.Location,
	})
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusCreated, map[string]favorResponse{"favor": toFavorResponse(favor)})
}

func (s *Server) listFavors(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.listFavors"

	favors, err := s.favorService.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	resp := make([]favorResponse, len(favors))
	for i := range favors {
		resp[i] = toFavorResponse(&favors[i])
	}

	s.respond(w, http.StatusOK, map[string][]favorResponse{"favors": resp})
}

func (s *Server) getFavor(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.getFavor"

	favor, err := s.favorService.Get(r.Context(), chi.URLParam(r, "favorID"))
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]favorResponse{"favor": toFavorResponse(favor)})
}

func (s *Server) applyToFavor(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.applyToFavor"

	applicant, err := s.favorService.Apply(r.Context(), chi.URLParam(r, "favorID"), userIDFromContext(r.Context()))
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusCreated, map[string]applicantResponse{"applicant": toApplicantResponse(applicant)})
}

func (s *Server) listApplicants(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.listApplicants"

	applicants, err := s.favorService.Applicants(r.Context(), chi.URLParam(r, "favorID"), userIDFromContext(r.Context()))
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	resp := make([]applicantResponse, len(applicants))
	for i := range applicants {
		resp[i] = toApplicantResponse(&applicants[i])
	}

	s.respond(w, http.StatusOK, map[string][]applicantResponse{"applicants": resp})
}

func (s *Server) acceptApplicant(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.acceptApplicant"

	var req acceptApplicantRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	favor, err := s.favorService.Accept(r.Context(), chi.URLParam(r, "favorID"), userIDFromContext(r.Context()), req.ApplicantID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]favorResponse{"favor": toFavorResponse(favor)})
}

func (s *Server) completeFavor(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.completeFavor"

	favor, err := s.favorService.Complete(r.Context(), chi.URLParam(r, "favorID"), userIDFromContext(r.Context()))
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]favorResponse{"favor": toFavorResponse(favor)})
}

func (s *Server) rateFavor(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.rateFavor"

	var req rateFavorRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	rating, err := s.ratingService.Submit(r.Context(), chi.URLParam(r, "favorID"), userIDFromContext(r.Context()), req.Score, req.Comment)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusCreated, map[string]ratingResponse{"rating": toRatingResponse(rating)})
}

func (s *Server) sendMessage(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.sendMessage"

	var req sendMessageRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	senderID := userIDFromContext(r.Context())

	sender, err := s.userService.Get(r.Context(), senderID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	recipient, err := s.userService.Get(r.Context(), req.RecipientID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	msg, err := s.chatService.Send(r.Context(), service.SendInput{
		SenderID:      senderID,
		SenderName:    sender.FullName,
		RecipientID:   recipient.ID,
		RecipientName: recipient.FullName,
		Text:          req.Text,
	})
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusCreated, map[string]messageResponse{"message": toMessageResponse(msg)})
}

func (s *Server) listMessages(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.listMessages"

	msgs, err := s.chatService.Messages(r.Context(), chi.URLParam(r, "threadID"), userIDFromContext(r.Context()))
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string][]messageResponse{"messages": toMessageResponses(msgs)})
}

func (s *Server) markThreadRead(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.markThreadRead"

	err := s.chatService.MarkRead(r.Context(), chi.URLParam(r, "threadID"), userIDFromContext(r.Context()))
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusNoContent, nil)
}

func (s *Server) listConversations(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.listConversations"

	summaries, err := s.chatService.Conversations(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string][]conversationResponse{"conversations": toConversationResponses(summaries)})
}

func (s *Server) listNotifications(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.listNotifications"

	notifications, err := s.notificationService.List(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	resp := make([]notificationResponse, len(notifications))
	for i := range notifications {
		resp[i] = toNotificationResponse(&notifications[i])
	}

	s.respond(w, http.StatusOK, map[string][]notificationResponse{"notifications": resp})
}

func (s *Server) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.markNotificationRead"

	readAt, err := s.notificationService.MarkRead(r.Context(), chi.URLParam(r, "notificationID"), userIDFromContext(r.Context()))
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]string{"read_at": readAt.Format(timeFormat)})
}

// respond is a helper function to encode data to JSON and write it to the
// response. It centralizes setting the Content-Type header and writing the
// status code.
func (s *Server) respond(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.log.Error("failed to encode response", sl.Err(err))
		}
	}
}

// respondError is a convenience wrapper around respond for sending simple
// error messages.
func (s *Server) respondError(w http.ResponseWriter, code int, message string) {
	s.respond(w, code, map[string]string{"error": message})
}

// decodeAndValidate is a helper that deserializes a JSON request body into a
// struct and then runs validation checks on it.
func (s *Server) decodeAndValidate(r *http.Request, v interface{}) error {
	if err := s.decode(r.Body, v); err != nil {
		return err
	}

	if err := validation.ValidateStruct(v); err != nil {
		return err
	}

	return nil
}

// decode is a helper function to decode a JSON request body.
func (s *Server) decode(body io.ReadCloser, v interface{}) error {
	defer body.Close()

	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrInvalidRequest, err)
	}

	return nil
}

// handleServiceError provides centralized error handling for all HTTP
// handlers. It logs the internal error and maps it to a user-friendly HTTP
// response.
func (s *Server) handleServiceError(w http.ResponseWriter, _ *http.Request, op string, err error) {
	log := s.log.With(slog.String("op", op))
	log.Error("service error occurred", sl.Err(err))

	var validationErr *validation.ValidationError

	switch {
	case errors.As(err, &validationErr):
		wrappedErr := fmt.Errorf("%w: %s", apperrors.ErrValidation, validationErr.Error())
		s.respondError(w, http.StatusBadRequest, wrappedErr.Error())
	case errors.Is(err, apperrors.ErrInvalidRequest):
		s.respondError(w, http.StatusBadRequest, "invalid request body")
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrSelfChat),
		errors.Is(err, apperrors.ErrSelfApply):
		s.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrUnauthorized):
		s.respondError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, apperrors.ErrNotParticipant),
		errors.Is(err, apperrors.ErrNotRequester),
		errors.Is(err, apperrors.ErrForbidden):
		s.respondError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, apperrors.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, apperrors.ErrAlreadyExists):
		s.respondError(w, http.StatusConflict, "resource already exists")
	case errors.Is(err, apperrors.ErrFavorNotOpen),
		errors.Is(err, apperrors.ErrFavorNotInProgress),
		errors.Is(err, apperrors.ErrFavorNotCompleted),
		errors.Is(err, apperrors.ErrNoApplicant):
		s.respondError(w, http.StatusConflict, err.Error())
	default:
		s.respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
