package service

import (
	"context"
	"fmt"
	"time"

	"github.com/maliksaad1/ai-surrogate/internal/domain"
)

// CreateThread starts a new conversation thread for the user.
func (s *Service) CreateThread(ctx context.Context, userID, title string) (*domain.Thread, error) {
	now := time.Now().UTC()
	thread := &domain.Thread{
		ThreadID:      newID("thr"),
		UserID:        userID,
		Title:         title,
		CreatedAt:     now,
		UpdatedAt:     now,
		LastMessageAt: &now,
	}
	if err := s.store.CreateThread(ctx, thread); err != nil {
		return nil, fmt.Errorf("failed to create thread: %w", err)
	}
	return thread, nil
}

// ListThreads returns the user's threads, most recently active first.
func (s *Service) ListThreads(ctx context.Context, userID string) ([]domain.Thread, error) {
	return s.store.ListThreads(ctx, userID)
}

// GetThread returns one of the user's threads. Threads owned by other users
// are reported as ErrThreadNotFound, never as a permission error.
func (s *Service) GetThread(ctx context.Context, userID, threadID string) (*domain.Thread, error) {
	thread, err := s.store.GetThread(ctx, threadID)
	if err != nil {
		return nil, fmt.Errorf("failed to get thread: %w", err)
	}
	if thread == nil || thread.UserID != userID {
		return nil, ErrThreadNotFound
	}
	return thread, nil
}

// RenameThread updates a thread's title.
func (s *Service) RenameThread(ctx context.Context, userID, threadID, title string) (*domain.Thread, error) {
	if _, err := s.GetThread(ctx, userID, threadID); err != nil {
		return nil, err
	}
	if err := s.store.UpdateThreadTitle(ctx, threadID, title); err != nil {
		return nil, fmt.Errorf("failed to rename thread: %w", err)
	}
	return s.GetThread(ctx, userID, threadID)
}

// DeleteThread removes a thread and its messages.
func (s *Service) DeleteThread(ctx context.Context, userID, threadID string) error {
	if _, err := s.GetThread(ctx, userID, threadID); err != nil {
		return err
	}
	if err := s.store.DeleteThread(ctx, threadID); err != nil {
		return fmt.Errorf("failed to delete thread: %w", err)
	}
	return nil
}

// ListThreadMessages returns the thread's oldest messages in order, capped
// at limit when it is positive.
func (s *Service) ListThreadMessages(ctx context.Context, userID, threadID string, limit int) ([]domain.ChatMessage, error) {
	if _, err := s.GetThread(ctx, userID, threadID); err != nil {
		return nil, err
	}
	return s.store.ListMessages(ctx, threadID, limit)
}
