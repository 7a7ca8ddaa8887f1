package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/crackthecode/internal/model"
	"github.com/mcoot/crackthecode/internal/storage"
)

// Hash fields of a player record
const (
	fieldUsername      = "username"
	fieldPasswordHash  = "password_hash"
	fieldAbout         = "about"
	fieldPicture       = "picture"
	fieldJoined        = "joined"
	fieldCreatedAt     = "created_at"
	fieldStreakCurrent = "streak_current"
	fieldStreakLongest = "streak_longest"
	fieldName          = "name"
	fieldAdmin         = "admin"
)

var playerSets = []model.PlayerSet{model.SetFriends, model.SetFriendRequests, model.SetSentRequests, model.SetStamps}

// Storage is a Redis-backed implementation of the storage interface.
//
// Uniqueness guards map onto atomic commands: WATCH/MULTI creates for
// usernames and group names, SADD for daily attempts, SETNX for score
// sessions and daily puzzles. The streak reset runs as a Lua script so its
// attempt check and write can't interleave with a completion.
type Storage struct {
	client *redis.Client
	keys   keys
}

// New connects to cfg.URL and fails unless the server answers a PING
func New(ctx context.Context, cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	client := redis.NewClient(opts)

	if cfg.PingTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.PingTimeout)
		defer cancel()
	}
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping %s: %w", opts.Addr, err)
	}
	return NewWithClient(client, cfg), nil
}

// NewWithClient wraps an existing client. An empty prefix means "ctc".
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = defaultKeyPrefix
	}
	return &Storage{
		client: client,
		keys:   keys{prefix: cfg.KeyPrefix},
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

// CreatePlayer writes the whole record in one MULTI guarded by WATCH on the
// player key, so a failed create leaves nothing behind.
func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	key := s.keys.player(player.Username)
	return s.createWatched(ctx, key, model.ErrUserExists, func(pipe redis.Pipeliner) {
		pipe.HSet(ctx, key, map[string]any{
			fieldUsername:      player.Username,
			fieldPasswordHash:  player.PasswordHash,
			fieldAbout:         player.About,
			fieldPicture:       player.Picture,
			fieldJoined:        player.Joined,
			fieldCreatedAt:     player.CreatedAt.UTC().Format(time.RFC3339Nano),
			fieldStreakCurrent: player.Streak.Current,
			fieldStreakLongest: player.Streak.Longest,
		})
		for _, set := range playerSets {
			if values := player.Values(set); len(values) > 0 {
				pipe.SAdd(ctx, s.keys.playerSet(player.Username, set), toAny(values)...)
			}
		}
		pipe.SAdd(ctx, s.keys.playerIndex(), player.Username)
	})
}

// createWatched runs write in a transaction that only commits while key is
// absent. A concurrent creator of the same key yields exists.
func (s *Storage) createWatched(ctx context.Context, key string, exists error, write func(redis.Pipeliner)) error {
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			return exists
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			write(pipe)
			return nil
		})
		return err
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return exists
	}
	return err
}

func (s *Storage) GetPlayer(ctx context.Context, username string) (*model.Player, error) {
	players, err := s.loadPlayers(ctx, []string{username})
	if err != nil {
		return nil, err
	}
	if len(players) == 0 {
		return nil, model.ErrPlayerNotFound
	}
	return players[0], nil
}

func (s *Storage) GetPlayers(ctx context.Context, usernames []string) ([]*model.Player, error) {
	return s.loadPlayers(ctx, usernames)
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	usernames, err := s.client.SMembers(ctx, s.keys.playerIndex()).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(usernames)
	return s.loadPlayers(ctx, usernames)
}

func (s *Storage) SearchPlayers(ctx context.Context, query string) ([]*model.Player, error) {
	usernames, err := s.client.SMembers(ctx, s.keys.playerIndex()).Result()
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	var matched []string
	for _, username := range usernames {
		if strings.Contains(strings.ToLower(username), q) {
			matched = append(matched, username)
		}
	}
	sort.Strings(matched)
	return s.loadPlayers(ctx, matched)
}

// loadPlayers fetches players in the given order, skipping unknown usernames
func (s *Storage) loadPlayers(ctx context.Context, usernames []string) ([]*model.Player, error) {
	if len(usernames) == 0 {
		return nil, nil
	}

	type pending struct {
		fields *redis.MapStringStringCmd
		sets   map[model.PlayerSet]*redis.StringSliceCmd
	}
	cmds := make([]pending, len(usernames))

	pipe := s.client.Pipeline()
	for i, username := range usernames {
		cmds[i].fields = pipe.HGetAll(ctx, s.keys.player(username))
		cmds[i].sets = make(map[model.PlayerSet]*redis.StringSliceCmd, len(playerSets))
		for _, set := range playerSets {
			cmds[i].sets[set] = pipe.SMembers(ctx, s.keys.playerSet(username, set))
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	players := make([]*model.Player, 0, len(usernames))
	for _, c := range cmds {
		fields := c.fields.Val()
		if len(fields) == 0 {
			continue
		}
		p, err := playerFromHash(fields)
		if err != nil {
			return nil, err
		}
		p.Friends = c.sets[model.SetFriends].Val()
		p.FriendRequests = c.sets[model.SetFriendRequests].Val()
		p.SentRequests = c.sets[model.SetSentRequests].Val()
		p.Stamps = c.sets[model.SetStamps].Val()
		p.Normalize()
		players = append(players, p)
	}
	return players, nil
}

func playerFromHash(fields map[string]string) (*model.Player, error) {
	p := &model.Player{
		Username:     fields[fieldUsername],
		PasswordHash: fields[fieldPasswordHash],
		About:        fields[fieldAbout],
		Picture:      fields[fieldPicture],
		Joined:       fields[fieldJoined],
	}
	var err error
	if v := fields[fieldCreatedAt]; v != "" {
		if p.CreatedAt, err = time.Parse(time.RFC3339Nano, v); err != nil {
			return nil, err
		}
	}
	if p.Streak.Current, err = atoiOrZero(fields[fieldStreakCurrent]); err != nil {
		return nil, err
	}
	if p.Streak.Longest, err = atoiOrZero(fields[fieldStreakLongest]); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Storage) UpdateAbout(ctx context.Context, username, about string) error {
	return s.setPlayerFields(ctx, username, fieldAbout, about)
}

func (s *Storage) UpdatePicture(ctx context.Context, username, picture string) error {
	return s.setPlayerFields(ctx, username, fieldPicture, picture)
}

func (s *Storage) UpdatePasswordHash(ctx context.Context, username, hash string) error {
	return s.setPlayerFields(ctx, username, fieldPasswordHash, hash)
}

func (s *Storage) SetStreak(ctx context.Context, username string, streak model.Streak) error {
	return s.setPlayerFields(ctx, username,
		fieldStreakCurrent, streak.Current,
		fieldStreakLongest, streak.Longest,
	)
}

// resetStreakScript zeroes streak_current in KEYS[1] unless the hash is
// missing, the streak is already zero, or ARGV[1] is in any of the attempt
// sets in KEYS[2:]. Returns -1 for a missing player.
var resetStreakScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  return -1
end
for i = 2, #KEYS do
  if redis.call('SISMEMBER', KEYS[i], ARGV[1]) == 1 then
    return 0
  end
end
local current = tonumber(redis.call('HGET', KEYS[1], ARGV[2]) or '0')
if current == nil or current <= 0 then
  return 0
end
redis.call('HSET', KEYS[1], ARGV[2], 0)
return 1
`)

func (s *Storage) ResetStreakUnlessAttempted(ctx context.Context, username string, dates ...string) (bool, error) {
	keys := make([]string, 0, len(dates)+1)
	keys = append(keys, s.keys.player(username))
	for _, date := range dates {
		keys = append(keys, s.keys.dailyAttempts(date))
	}
	n, err := resetStreakScript.Run(ctx, s.client, keys, username, fieldStreakCurrent).Int()
	if err != nil {
		return false, err
	}
	if n < 0 {
		return false, model.ErrPlayerNotFound
	}
	return n == 1, nil
}

// setPlayerFields writes hash fields in one HSET. Players are never deleted,
// so the existence check can't race with a removal.
func (s *Storage) setPlayerFields(ctx context.Context, username string, values ...any) error {
	if err := s.requirePlayer(ctx, username); err != nil {
		return err
	}
	return s.client.HSet(ctx, s.keys.player(username), values...).Err()
}

func (s *Storage) UpdatePlayerSets(ctx context.Context, username string, ops ...model.SetOp) error {
	if err := s.requirePlayer(ctx, username); err != nil {
		return err
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, op := range ops {
			key := s.keys.playerSet(username, op.Set)
			if op.Remove {
				pipe.SRem(ctx, key, op.Value)
			} else {
				pipe.SAdd(ctx, key, op.Value)
			}
		}
		return nil
	})
	return err
}

func (s *Storage) requirePlayer(ctx context.Context, username string) error {
	n, err := s.client.Exists(ctx, s.keys.player(username)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrPlayerNotFound
	}
	return nil
}

// Group operations

func (s *Storage) CreateGroup(ctx context.Context, group *model.Group) error {
	key := s.keys.group(group.Name)
	return s.createWatched(ctx, key, model.ErrGroupNameTaken, func(pipe redis.Pipeliner) {
		pipe.HSet(ctx, key, map[string]any{
			fieldName:         group.Name,
			fieldPasswordHash: group.PasswordHash,
			fieldAdmin:        group.Admin,
			fieldCreatedAt:    group.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
		for _, member := range group.Members {
			pipe.SAdd(ctx, s.keys.groupMembers(group.Name), member)
			pipe.SAdd(ctx, s.keys.playerGroups(member), group.Name)
		}
		pipe.SAdd(ctx, s.keys.groupIndex(), group.Name)
	})
}

func (s *Storage) GetGroup(ctx context.Context, name string) (*model.Group, error) {
	groups, err := s.loadGroups(ctx, []string{name})
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, model.ErrGroupNotFound
	}
	return groups[0], nil
}

func (s *Storage) SearchGroups(ctx context.Context, query string) ([]*model.Group, error) {
	names, err := s.client.SMembers(ctx, s.keys.groupIndex()).Result()
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	var matched []string
	for _, name := range names {
		if strings.Contains(strings.ToLower(name), q) {
			matched = append(matched, name)
		}
	}
	sort.Strings(matched)
	return s.loadGroups(ctx, matched)
}

func (s *Storage) GroupsForMember(ctx context.Context, username string) ([]*model.Group, error) {
	names, err := s.client.SMembers(ctx, s.keys.playerGroups(username)).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return s.loadGroups(ctx, names)
}

func (s *Storage) loadGroups(ctx context.Context, names []string) ([]*model.Group, error) {
	if len(names) == 0 {
		return nil, nil
	}

	type pending struct {
		fields  *redis.MapStringStringCmd
		members *redis.StringSliceCmd
	}
	cmds := make([]pending, len(names))

	pipe := s.client.Pipeline()
	for i, name := range names {
		cmds[i].fields = pipe.HGetAll(ctx, s.keys.group(name))
		cmds[i].members = pipe.SMembers(ctx, s.keys.groupMembers(name))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	groups := make([]*model.Group, 0, len(names))
	for _, c := range cmds {
		fields := c.fields.Val()
		if len(fields) == 0 {
			continue
		}
		g := &model.Group{
			Name:         fields[fieldName],
			PasswordHash: fields[fieldPasswordHash],
			Admin:        fields[fieldAdmin],
			Members:      c.members.Val(),
		}
		if v := fields[fieldCreatedAt]; v != "" {
			t, err := time.Parse(time.RFC3339Nano, v)
			if err != nil {
				return nil, err
			}
			g.CreatedAt = t
		}
		sort.Strings(g.Members)
		groups = append(groups, g)
	}
	return groups, nil
}

func (s *Storage) AddGroupMember(ctx context.Context, name, username string) error {
	return s.updateMembership(ctx, name, username, false)
}

func (s *Storage) RemoveGroupMember(ctx context.Context, name, username string) error {
	return s.updateMembership(ctx, name, username, true)
}

// updateMembership keeps the member set and the reverse index in one MULTI
func (s *Storage) updateMembership(ctx context.Context, name, username string, remove bool) error {
	n, err := s.client.Exists(ctx, s.keys.group(name)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrGroupNotFound
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if remove {
			pipe.SRem(ctx, s.keys.groupMembers(name), username)
			pipe.SRem(ctx, s.keys.playerGroups(username), name)
		} else {
			pipe.SAdd(ctx, s.keys.groupMembers(name), username)
			pipe.SAdd(ctx, s.keys.playerGroups(username), name)
		}
		return nil
	})
	return err
}

// Daily puzzle operations

func (s *Storage) GetDailyPuzzle(ctx context.Context, date string) (*model.DailyPuzzle, error) {
	data, err := s.client.Get(ctx, s.keys.daily(date)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrDailyPuzzleNotFound
		}
		return nil, err
	}

	var puzzle model.DailyPuzzle
	if err := json.Unmarshal(data, &puzzle); err != nil {
		return nil, err
	}
	return &puzzle, nil
}

func (s *Storage) CreateDailyPuzzleIfAbsent(ctx context.Context, puzzle *model.DailyPuzzle) (*model.DailyPuzzle, bool, error) {
	data, err := json.Marshal(puzzle)
	if err != nil {
		return nil, false, err
	}

	created, err := s.client.SetNX(ctx, s.keys.daily(puzzle.Date), data, 0).Result()
	if err != nil {
		return nil, false, err
	}
	if created {
		stored := *puzzle
		return &stored, true, nil
	}

	existing, err := s.GetDailyPuzzle(ctx, puzzle.Date)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (s *Storage) RecordDailyAttempt(ctx context.Context, attempt model.DailyAttempt) error {
	added, err := s.client.SAdd(ctx, s.keys.dailyAttempts(attempt.Date), attempt.Username).Result()
	if err != nil {
		return err
	}
	if added == 0 {
		return model.ErrAlreadyAttempted
	}
	return nil
}

func (s *Storage) HasDailyAttempt(ctx context.Context, username, date string) (bool, error) {
	return s.client.SIsMember(ctx, s.keys.dailyAttempts(date), username).Result()
}

// Score operations

func (s *Storage) SaveScore(ctx context.Context, score *model.Score) error {
	data, err := json.Marshal(score)
	if err != nil {
		return err
	}

	key := s.keys.score(score.Username, score.SessionID)
	created, err := s.client.SetNX(ctx, key, data, 0).Result()
	if err != nil {
		return err
	}
	if !created {
		return model.ErrDuplicateSubmission
	}

	pipe := s.client.Pipeline()
	pipe.RPush(ctx, s.keys.scoreIndex(), key)
	pipe.RPush(ctx, s.keys.playerScores(score.Username), key)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) HasScore(ctx context.Context, username, sessionID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.keys.score(username, sessionID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Storage) ListScores(ctx context.Context) ([]*model.Score, error) {
	return s.loadScores(ctx, s.keys.scoreIndex())
}

func (s *Storage) ListPlayerScores(ctx context.Context, username string) ([]*model.Score, error) {
	return s.loadScores(ctx, s.keys.playerScores(username))
}

// loadScores resolves a LIST of score keys in submission order
func (s *Storage) loadScores(ctx context.Context, indexKey string) ([]*model.Score, error) {
	scoreKeys, err := s.client.LRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(scoreKeys) == 0 {
		return nil, nil
	}

	values, err := s.client.MGet(ctx, scoreKeys...).Result()
	if err != nil {
		return nil, err
	}

	scores := make([]*model.Score, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var score model.Score
		if err := json.Unmarshal([]byte(raw), &score); err != nil {
			return nil, err
		}
		scores = append(scores, &score)
	}
	return scores, nil
}

// Chat operations

func (s *Storage) GetChatMessages(ctx context.Context, key model.ThreadKey) ([]model.ChatMessage, error) {
	data, err := s.client.Get(ctx, s.keys.chat(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var messages []model.ChatMessage
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (s *Storage) SaveChatMessages(ctx context.Context, key model.ThreadKey, messages []model.ChatMessage) error {
	data, err := json.Marshal(messages)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.keys.chat(key), data, 0).Err()
}

// Puzzle pool operations

func (s *Storage) SavePoolPuzzle(ctx context.Context, puzzle *model.PoolPuzzle) error {
	data, err := json.Marshal(puzzle)
	if err != nil {
		return err
	}

	if puzzle.Kind == model.PuzzleEndless {
		return s.client.RPush(ctx, s.keys.endlessPool(), data).Err()
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, s.keys.categoryPool(puzzle.Category), data)
		pipe.SAdd(ctx, s.keys.categoryIndex(), puzzle.Category)
		return nil
	})
	return err
}

func (s *Storage) ListPoolPuzzles(ctx context.Context, kind model.PuzzleKind, category string) ([]*model.PoolPuzzle, error) {
	var listKeys []string
	switch {
	case kind == model.PuzzleEndless:
		listKeys = []string{s.keys.endlessPool()}
	case category != "":
		listKeys = []string{s.keys.categoryPool(category)}
	default:
		categories, err := s.ListCategories(ctx)
		if err != nil {
			return nil, err
		}
		for _, c := range categories {
			listKeys = append(listKeys, s.keys.categoryPool(c))
		}
	}

	var puzzles []*model.PoolPuzzle
	for _, key := range listKeys {
		items, err := s.client.LRange(ctx, key, 0, -1).Result()
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			var puzzle model.PoolPuzzle
			if err := json.Unmarshal([]byte(item), &puzzle); err != nil {
				return nil, err
			}
			if category != "" && puzzle.Category != category {
				continue
			}
			puzzles = append(puzzles, &puzzle)
		}
	}
	return puzzles, nil
}

func (s *Storage) ListCategories(ctx context.Context) ([]string, error) {
	categories, err := s.client.SMembers(ctx, s.keys.categoryIndex()).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(categories)
	return categories, nil
}

func (s *Storage) AddFlavorText(ctx context.Context, kind model.FlavorKind, text string) error {
	return s.client.RPush(ctx, s.keys.flavor(kind), text).Err()
}

func (s *Storage) ListFlavorTexts(ctx context.Context, kind model.FlavorKind) ([]string, error) {
	return s.client.LRange(ctx, s.keys.flavor(kind), 0, -1).Result()
}

func toAny(values []string) []any {
	result := make([]any, len(values))
	for i, v := range values {
		result[i] = v
	}
	return result
}

func atoiOrZero(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}
