package notify

import (
	"gorm.io/gorm"

	"real-estate-marketplace/internal/models"
)

// Service persists in-app notifications and pushes them out after the
// database write has committed.
type Service struct {
	db         *gorm.DB
	dispatcher *Dispatcher
}

func NewService(db *gorm.DB, dispatcher *Dispatcher) *Service {
	return &Service{db: db, dispatcher: dispatcher}
}

// Notify writes the notification row and, once committed, pushes it to the
// user's device. The push is best-effort; the row is the source of truth.
func (s *Service) Notify(userID uint, nType models.NotificationType, title, body, actionURL string) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return err
	}

	notification := models.Notification{
		UserID:    userID,
		Title:     title,
		Message:   body,
		Type:      nType,
		ActionURL: actionURL,
	}
	if err := s.db.Create(&notification).Error; err != nil {
		return err
	}

	s.dispatcher.DispatchAfterCommit(&user, title, body, actionURL)
	return nil
}

// NotifyInTx writes the row using the caller's transaction. It returns the
// push step as a closure; the caller invokes it only after the transaction
// has committed so a rollback never produces a stray push.
func (s *Service) NotifyInTx(tx *gorm.DB, user *models.User, nType models.NotificationType, title, body, actionURL string) (func(), error) {
	notification := models.Notification{
		UserID:    user.ID,
		Title:     title,
		Message:   body,
		Type:      nType,
		ActionURL: actionURL,
	}
	if err := tx.Create(&notification).Error; err != nil {
		return nil, err
	}

	push := func() {
		s.dispatcher.DispatchAfterCommit(user, title, body, actionURL)
	}
	return push, nil
}
