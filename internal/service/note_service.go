package service

import (
	"context"
	"errors"
	"strings"

	"frontdesk/internal/domain"
	"frontdesk/internal/models"

	"github.com/rs/zerolog"
)

var ErrEmptyNote = errors.New("note needs a title or a body")

type NoteService struct {
	store  domain.Store
	logger *zerolog.Logger
}

func NewNoteService(store domain.Store, logger *zerolog.Logger) *NoteService {
	return &NoteService{store: store, logger: logger}
}

func (s *NoteService) Create(ctx context.Context, note *models.Note) error {
	note.Title = strings.TrimSpace(note.Title)
	note.Body = strings.TrimSpace(note.Body)
	if note.Title == "" && note.Body == "" {
		return ErrEmptyNote
	}
	return s.store.CreateNote(ctx, note)
}

func (s *NoteService) Update(ctx context.Context, note *models.Note) error {
	note.Title = strings.TrimSpace(note.Title)
	note.Body = strings.TrimSpace(note.Body)
	if note.Title == "" && note.Body == "" {
		return ErrEmptyNote
	}
	return s.store.UpdateNote(ctx, note)
}

func (s *NoteService) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteNote(ctx, id)
}

func (s *NoteService) List(ctx context.Context) ([]models.Note, error) {
	return s.store.ListNotes(ctx)
}
