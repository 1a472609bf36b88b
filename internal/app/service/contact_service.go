package service

import (
	"github.com/nvolkov/brewhub-backend/internal/app/model"
	"github.com/nvolkov/brewhub-backend/internal/app/repository"
	"github.com/nvolkov/brewhub-backend/pkg/logger"
	"github.com/nvolkov/brewhub-backend/pkg/mailer"
)

type ContactService interface {
	Submit(contact *model.Contact, attachment []byte, filename string) error
	ListMessages(skip, limit int) ([]model.Contact, error)
}

type contactService struct {
	contactRepo *repository.ContactRepository
	mailer      *mailer.Mailer
	shopEmail   string
}

func NewContactService(contactRepo *repository.ContactRepository, m *mailer.Mailer, shopEmail string) ContactService {
	return &contactService{
		contactRepo: contactRepo,
		mailer:      m,
		shopEmail:   shopEmail,
	}
}

// Submit stores the message and forwards a copy to the shop inbox,
// carrying the customer's attachment along when one was sent. Mail
// delivery failure does not fail the submission.
func (s *contactService) Submit(contact *model.Contact, attachment []byte, filename string) error {
	logger.Info("Contact message received", map[string]interface{}{
		"email":          contact.Email,
		"subject":        contact.Subject,
		"has_attachment": len(attachment) > 0,
	})

	if err := s.contactRepo.Create(contact); err != nil {
		return err
	}

	if s.shopEmail != "" {
		msg := mailer.Message{
			To:         s.shopEmail,
			Subject:    "[Contact] " + contact.Subject,
			Body:       "From: " + contact.Name + " <" + contact.Email + ">\n\n" + contact.Message,
			Attachment: attachment,
			Filename:   filename,
		}
		if err := s.mailer.Send(msg); err != nil {
			logger.Warn("Failed to forward contact message", map[string]interface{}{
				"contact_id": contact.ID,
			})
		}
	}
	return nil
}

func (s *contactService) ListMessages(skip, limit int) ([]model.Contact, error) {
	return s.contactRepo.List(nil, repository.WithPagination(skip, limit))
}
