package model

import (
	"fmt"
	"sort"
)

// MaxChatMessages is the number of messages kept per thread
const MaxChatMessages = 20

// ChatKind distinguishes direct friend chats from group chats
type ChatKind string

const (
	ChatFriend ChatKind = "friend"
	ChatGroup  ChatKind = "group"
)

// ThreadKey identifies a chat thread
type ThreadKey string

// FriendThread returns the key for the chat between a and b.
// The pair is sorted so both directions share a thread, and the first name
// is length-prefixed so distinct pairs never share a key.
func FriendThread(a, b string) ThreadKey {
	pair := []string{a, b}
	sort.Strings(pair)
	return ThreadKey(fmt.Sprintf("friend:%d:%s:%s", len(pair[0]), pair[0], pair[1]))
}

// GroupThread returns the key for a group's chat
func GroupThread(name string) ThreadKey {
	return ThreadKey("group:" + name)
}

// ChatMessage is one chat entry
type ChatMessage struct {
	Sender string
	Text   string
}
