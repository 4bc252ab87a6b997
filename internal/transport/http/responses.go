package http

import (
	"time"

	"github.com/vecinoapp/favores-service/internal/domain"
	"github.com/vecinoapp/favores-service/internal/service"
)

const timeFormat = time.RFC3339

type userResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
	Location     string `json:"location,omitempty"`
	Presentation string `json:"presentation,omitempty"`
	Gender       string `json:"gender,omitempty"`
	Phone        string `json:"phone,omitempty"`
	CreatedAt    string `json:"created_at"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:           u.ID,
		Email:        u.Email,
		FullName:     u.FullName,
		Location:     u.Location,
		Presentation: u.Presentation,
		Gender:       u.Gender,
		Phone:        u.Phone,
		CreatedAt:    u.CreatedAt.Format(timeFormat),
	}
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type statsResponse struct {
	UserID          string  `json:"user_id"`
	FavorsCompleted int     `json:"favors_completed"`
	AverageRating   float64 `json:"average_rating"`
	TotalRatings    int     `json:"total_ratings"`
	PeopleHelped    int     `json:"people_helped"`
}

func toStatsResponse(s *domain.UserStats) statsResponse {
	return statsResponse{
		UserID:          s.UserID,
		FavorsCompleted: s.FavorsCompleted,
		AverageRating:   s.AverageRating,
		TotalRatings:    s.TotalRatings,
		PeopleHelped:    s.PeopleHelped,
	}
}

type profileResponse struct {
	User  userResponse  `json:"user"`
	Stats statsResponse `json:"stats"`
}

func toProfileResponse(p *service.Profile) profileResponse {
	return profileResponse{
		User:  toUserResponse(p.User),
		Stats: toStatsResponse(p.Stats),
	}
}

type favorResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	RequesterID string  `json:"requester_id"`
	Price       int64   `json:"price"`
	Location    string  `json:"location,omitempty"`
	Status      string  `json:"status"`
	HelperID    *string `json:"helper_id,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

func toFavorResponse(f *domain.Favor) favorResponse {
	return favorResponse{
		ID:          f.ID,
		Title:       f.Title,
		Description: f.Description,
		Category:    f.Category,
		RequesterID: f.RequesterID,
		Price:       f.Price,
		Location:    f.Location,
		Status:      string(f.Status),
		HelperID:    f.HelperID,
		CreatedAt:   f.CreatedAt.Format(timeFormat),
	}
}

type applicantResponse struct {
	FavorID   string `json:"favor_id"`
	UserID    string `json:"user_id"`
	FullName  string `json:"full_name"`
	Location  string `json:"location,omitempty"`
	AppliedAt string `json:"applied_at"`
}

func toApplicantResponse(a *domain.Applicant) applicantResponse {
	return applicantResponse{
		FavorID:   a.FavorID,
		UserID:    a.UserID,
		FullName:  a.FullName,
		Location:  a.Location,
		AppliedAt: a.AppliedAt.Format(timeFormat),
	}
}

type ratingResponse struct {
	ID          string  `json:"id"`
	FavorID     string  `json:"favor_id"`
	RaterID     string  `json:"rater_id"`
	RatedUserID string  `json:"rated_user_id"`
	Score       float64 `json:"score"`
	Comment     string  `json:"comment,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

func toRatingResponse(r *domain.Rating) ratingResponse {
	return ratingResponse{
		ID:          r.ID,
		FavorID:     r.FavorID,
		RaterID:     r.RaterID,
		RatedUserID: r.RatedUserID,
		Score:       r.Score,
		Comment:     r.Comment,
		CreatedAt:   r.CreatedAt.Format(timeFormat),
	}
}

type messageResponse struct {
	ID         string `json:"id"`
	ThreadID   string `json:"thread_id"`
	SenderID   string `json:"sender_id"`
	SenderName string `json:"sender_name"`
	Text       string `json:"text"`
	CreatedAt  string `json:"created_at"`
}

func toMessageResponse(m *domain.Message) messageResponse {
	return messageResponse{
		ID:         m.ID,
		ThreadID:   m.ThreadID,
		SenderID:   m.SenderID,
		SenderName: m.SenderName,
		Text:       m.Text,
		CreatedAt:  m.CreatedAt.Format(timeFormat),
	}
}

func toMessageResponses(msgs []domain.Message) []messageResponse {
	resp := make([]messageResponse, len(msgs))
	for i := range msgs {
		resp[i] = toMessageResponse(&msgs[i])
	}

	return resp
}

type conversationResponse struct {
	ThreadID        string `json:"thread_id"`
	OtherID         string `json:"other_id"`
	OtherName       string `json:"other_name"`
	LastMessageText string `json:"last_message_text"`
	LastSenderID    string `json:"last_sender_id"`
	LastMessageAt   string `json:"last_message_at"`
	Unread          bool   `json:"unread"`
}

func toConversationResponses(summaries []domain.ConversationSummary) []conversationResponse {
	resp := make([]conversationResponse, len(summaries))
	for i, c := range summaries {
		resp[i] = conversationResponse{
			ThreadID:        c.ThreadID,
			OtherID:         c.OtherID,
			OtherName:       c.OtherName,
			LastMessageText: c.LastMessageText,
			LastSenderID:    c.LastSenderID,
			LastMessageAt:   c.LastMessageAt.Format(timeFormat),
			Unread:          c.Unread,
		}
	}

	return resp
}

type notificationResponse struct {
	ID          string  `json:"id"`
	RecipientID string  `json:"recipient_id"`
	SenderID    string  `json:"sender_id"`
	SenderName  string  `json:"sender_name"`
	FavorID     string  `json:"favor_id"`
	FavorTitle  string  `json:"favor_title"`
	Type        string  `json:"type"`
	CreatedAt   string  `json:"created_at"`
	ReadAt      *string `json:"read_at,omitempty"`
}

func toNotificationResponse(n *domain.Notification) notificationResponse {
	resp := notificationResponse{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		SenderID:    n.SenderID,
		SenderName:  n.SenderName,
		FavorID:     n.FavorID,
		FavorTitle:  n.FavorTitle,
		Type:        n.Type,
		CreatedAt:   n.CreatedAt.Format(timeFormat),
	}

	if n.ReadAt != nil {
		readAt := n.ReadAt.Format(timeFormat)
		resp.ReadAt = &readAt
	}

	return resp
}
