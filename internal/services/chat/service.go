// Package chat keeps the bounded message logs for friend and group chats.
package chat

import (
	"context"
	"errors"

	"github.com/mcoot/crackthecode/internal/model"
	"github.com/mcoot/crackthecode/internal/storage"
)

// Service posts to and reads chat threads.
//
// Post is read-append-write against storage and is not atomic: two concurrent
// posters to one thread can both read the same history, and the later write
// drops the earlier message.
type Service struct {
	storage storage.Storage
}

// New creates a chat Service
func New(storage storage.Storage) *Service {
	return &Service{storage: storage}
}

// Post appends a message, keeping the most recent model.MaxChatMessages.
// An empty message is rejected before the thread is resolved.
func (s *Service) Post(ctx context.Context, kind model.ChatKind, sender, target, text string) error {
	if text == "" {
		return model.ErrEmptyMessage
	}
	key, err := s.thread(ctx, kind, sender, target)
	if err != nil {
		return err
	}

	messages, err := s.storage.GetChatMessages(ctx, key)
	if err != nil {
		return err
	}
	messages = Append(messages, model.ChatMessage{Sender: sender, Text: text})
	return s.storage.SaveChatMessages(ctx, key, messages)
}

// History returns a thread's messages, oldest first. Missing threads are empty.
func (s *Service) History(ctx context.Context, kind model.ChatKind, viewer, target string) ([]model.ChatMessage, error) {
	key, err := s.thread(ctx, kind, viewer, target)
	if err != nil {
		return nil, err
	}
	messages, err := s.storage.GetChatMessages(ctx, key)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []model.ChatMessage{}
	}
	return messages, nil
}

// thread resolves the thread key, enforcing group membership
func (s *Service) thread(ctx context.Context, kind model.ChatKind, username, target string) (model.ThreadKey, error) {
	switch kind {
	case model.ChatFriend:
		return model.FriendThread(username, target), nil
	case model.ChatGroup:
		group, err := s.storage.GetGroup(ctx, target)
		if errors.Is(err, model.ErrGroupNotFound) {
			return "", model.ErrAccessDenied
		}
		if err != nil {
			return "", err
		}
		if !group.IsMember(username) {
			return "", model.ErrAccessDenied
		}
		return model.GroupThread(target), nil
	}
	return "", model.ErrInvalidChatType
}

// Append adds msg and evicts from the front beyond model.MaxChatMessages
func Append(messages []model.ChatMessage, msg model.ChatMessage) []model.ChatMessage {
	out := make([]model.ChatMessage, 0, min(len(messages)+1, model.MaxChatMessages))
	if drop := len(messages) + 1 - model.MaxChatMessages; drop > 0 {
		messages = messages[drop:]
	}
	out = append(out, messages...)
	return append(out, msg)
}
