package memory

import (
	"context"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/mcoot/crackthecode/internal/model"
	"github.com/mcoot/crackthecode/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Records are copied in and out so callers never share state with the store.
type Storage struct {
	mu sync.RWMutex

	players      map[string]*model.Player
	groups       map[string]*model.Group
	dailyPuzzles map[string]*model.DailyPuzzle
	attempts     map[model.DailyAttempt]struct{}
	scores       []*model.Score
	scoreKeys    map[scoreKey]struct{}
	chats        map[model.ThreadKey][]model.ChatMessage
	pool         []*model.PoolPuzzle
	flavor       map[model.FlavorKind][]string
}

type scoreKey struct {
	username  string
	sessionID string
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:      make(map[string]*model.Player),
		groups:       make(map[string]*model.Group),
		dailyPuzzles: make(map[string]*model.DailyPuzzle),
		attempts:     make(map[model.DailyAttempt]struct{}),
		scoreKeys:    make(map[scoreKey]struct{}),
		chats:        make(map[model.ThreadKey][]model.ChatMessage),
		flavor:       make(map[model.FlavorKind][]string),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[player.Username]; ok {
		return model.ErrUserExists
	}
	p := player.Clone()
	p.Normalize()
	s.players[player.Username] = p
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, username string) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[username]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player.Clone(), nil
}

func (s *Storage) GetPlayers(ctx context.Context, usernames []string) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*model.Player, 0, len(usernames))
	for _, username := range usernames {
		if player, ok := s.players[username]; ok {
			result = append(result, player.Clone())
		}
	}
	return result, nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*model.Player, 0, len(s.players))
	for _, player := range s.players {
		result = append(result, player.Clone())
	}
	sortPlayers(result)
	return result, nil
}

func (s *Storage) SearchPlayers(ctx context.Context, query string) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q := strings.ToLower(query)
	var result []*model.Player
	for username, player := range s.players {
		if strings.Contains(strings.ToLower(username), q) {
			result = append(result, player.Clone())
		}
	}
	sortPlayers(result)
	return result, nil
}

func (s *Storage) UpdateAbout(ctx context.Context, username, about string) error {
	return s.updatePlayer(username, func(p *model.Player) { p.About = about })
}

func (s *Storage) UpdatePicture(ctx context.Context, username, picture string) error {
	return s.updatePlayer(username, func(p *model.Player) { p.Picture = picture })
}

func (s *Storage) UpdatePasswordHash(ctx context.Context, username, hash string) error {
	return s.updatePlayer(username, func(p *model.Player) { p.PasswordHash = hash })
}

func (s *Storage) SetStreak(ctx context.Context, username string, streak model.Streak) error {
	return s.updatePlayer(username, func(p *model.Player) { p.Streak = streak })
}

func (s *Storage) ResetStreakUnlessAttempted(ctx context.Context, username string, dates ...string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[username]
	if !ok {
		return false, model.ErrPlayerNotFound
	}
	if p.Streak.Current == 0 {
		return false, nil
	}
	for _, date := range dates {
		if _, ok := s.attempts[model.DailyAttempt{Username: username, Date: date}]; ok {
			return false, nil
		}
	}
	p.Streak.Current = 0
	return true, nil
}

func (s *Storage) UpdatePlayerSets(ctx context.Context, username string, ops ...model.SetOp) error {
	return s.updatePlayer(username, func(p *model.Player) { p.Apply(ops...) })
}

func (s *Storage) updatePlayer(username string, fn func(*model.Player)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	player, ok := s.players[username]
	if !ok {
		return model.ErrPlayerNotFound
	}
	fn(player)
	return nil
}

// Group operations

func (s *Storage) CreateGroup(ctx context.Context, group *model.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[group.Name]; ok {
		return model.ErrGroupNameTaken
	}
	g := group.Clone()
	sort.Strings(g.Members)
	s.groups[group.Name] = g
	return nil
}

func (s *Storage) GetGroup(ctx context.Context, name string) (*model.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	group, ok := s.groups[name]
	if !ok {
		return nil, model.ErrGroupNotFound
	}
	return group.Clone(), nil
}

func (s *Storage) SearchGroups(ctx context.Context, query string) ([]*model.Group, error) {
	q := strings.ToLower(query)
	return s.filterGroups(func(g *model.Group) bool {
		return strings.Contains(strings.ToLower(g.Name), q)
	}), nil
}

func (s *Storage) GroupsForMember(ctx context.Context, username string) ([]*model.Group, error) {
	return s.filterGroups(func(g *model.Group) bool { return g.IsMember(username) }), nil
}

func (s *Storage) filterGroups(keep func(*model.Group) bool) []*model.Group {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*model.Group
	for _, group := range s.groups {
		if keep(group) {
			result = append(result, group.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

func (s *Storage) AddGroupMember(ctx context.Context, name, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	group, ok := s.groups[name]
	if !ok {
		return model.ErrGroupNotFound
	}
	if idx, found := slices.BinarySearch(group.Members, username); !found {
		group.Members = slices.Insert(group.Members, idx, username)
	}
	return nil
}

func (s *Storage) RemoveGroupMember(ctx context.Context, name, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	group, ok := s.groups[name]
	if !ok {
		return model.ErrGroupNotFound
	}
	if idx, found := slices.BinarySearch(group.Members, username); found {
		group.Members = slices.Delete(group.Members, idx, idx+1)
	}
	return nil
}

// Daily puzzle operations

func (s *Storage) GetDailyPuzzle(ctx context.Context, date string) (*model.DailyPuzzle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	puzzle, ok := s.dailyPuzzles[date]
	if !ok {
		return nil, model.ErrDailyPuzzleNotFound
	}
	return cloneDaily(puzzle), nil
}

func (s *Storage) CreateDailyPuzzleIfAbsent(ctx context.Context, puzzle *model.DailyPuzzle) (*model.DailyPuzzle, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.dailyPuzzles[puzzle.Date]; ok {
		return cloneDaily(existing), false, nil
	}
	s.dailyPuzzles[puzzle.Date] = cloneDaily(puzzle)
	return cloneDaily(puzzle), true, nil
}

func (s *Storage) RecordDailyAttempt(ctx context.Context, attempt model.DailyAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.attempts[attempt]; ok {
		return model.ErrAlreadyAttempted
	}
	s.attempts[attempt] = struct{}{}
	return nil
}

func (s *Storage) HasDailyAttempt(ctx context.Context, username, date string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.attempts[model.DailyAttempt{Username: username, Date: date}]
	return ok, nil
}

// Score operations

func (s *Storage) SaveScore(ctx context.Context, score *model.Score) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := scoreKey{username: score.Username, sessionID: score.SessionID}
	if _, ok := s.scoreKeys[key]; ok {
		return model.ErrDuplicateSubmission
	}
	s.scoreKeys[key] = struct{}{}
	stored := *score
	s.scores = append(s.scores, &stored)
	return nil
}

func (s *Storage) HasScore(ctx context.Context, username, sessionID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.scoreKeys[scoreKey{username: username, sessionID: sessionID}]
	return ok, nil
}

func (s *Storage) ListScores(ctx context.Context) ([]*model.Score, error) {
	return s.filterScores(func(*model.Score) bool { return true }), nil
}

func (s *Storage) ListPlayerScores(ctx context.Context, username string) ([]*model.Score, error) {
	return s.filterScores(func(sc *model.Score) bool { return sc.Username == username }), nil
}

// filterScores returns matching scores in insertion order
func (s *Storage) filterScores(keep func(*model.Score) bool) []*model.Score {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*model.Score
	for _, score := range s.scores {
		if keep(score) {
			c := *score
			result = append(result, &c)
		}
	}
	return result
}

// Chat operations

func (s *Storage) GetChatMessages(ctx context.Context, key model.ThreadKey) ([]model.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.chats[key]), nil
}

func (s *Storage) SaveChatMessages(ctx context.Context, key model.ThreadKey, messages []model.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chats[key] = slices.Clone(messages)
	return nil
}

// Puzzle pool operations

func (s *Storage) SavePoolPuzzle(ctx context.Context, puzzle *model.PoolPuzzle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *puzzle
	c.Cipher = cloneCipher(puzzle.Cipher)
	s.pool = append(s.pool, &c)
	return nil
}

func (s *Storage) ListPoolPuzzles(ctx context.Context, kind model.PuzzleKind, category string) ([]*model.PoolPuzzle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*model.PoolPuzzle
	for _, puzzle := range s.pool {
		if puzzle.Kind != kind || (category != "" && puzzle.Category != category) {
			continue
		}
		c := *puzzle
		c.Cipher = cloneCipher(puzzle.Cipher)
		result = append(result, &c)
	}
	return result, nil
}

func (s *Storage) ListCategories(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []string
	for _, puzzle := range s.pool {
		if puzzle.Kind == model.PuzzleCategory && !slices.Contains(result, puzzle.Category) {
			result = append(result, puzzle.Category)
		}
	}
	sort.Strings(result)
	return result, nil
}

func (s *Storage) AddFlavorText(ctx context.Context, kind model.FlavorKind, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flavor[kind] = append(s.flavor[kind], text)
	return nil
}

func (s *Storage) ListFlavorTexts(ctx context.Context, kind model.FlavorKind) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.flavor[kind]), nil
}

func sortPlayers(players []*model.Player) {
	sort.Slice(players, func(i, j int) bool { return players[i].Username < players[j].Username })
}

func cloneDaily(p *model.DailyPuzzle) *model.DailyPuzzle {
	c := *p
	c.Cipher = cloneCipher(p.Cipher)
	return &c
}

func cloneCipher(c model.Cipher) model.Cipher {
	c.LetterMap = maps.Clone(c.LetterMap)
	c.RevealedLetters = slices.Clone(c.RevealedLetters)
	return c
}
