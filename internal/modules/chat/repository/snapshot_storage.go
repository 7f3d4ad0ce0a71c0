package repository

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"
	"github.com/reshetovitsme/community-analytics/internal/modules/chat/domain"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// snapshot is the on-disk export of a community as captured from the platform.
type snapshot struct {
	OperatorID string                         `json:"operator_id"`
	Chats      []*domain.Chat                 `json:"chats"`
	Messages   map[string][]*snapshotMessage  `json:"messages"`
	Receipts   map[string]*domain.MessageInfo `json:"receipts"`
}

type snapshotMessage struct {
	ID        string   `json:"id"`
	Author    string   `json:"author,omitempty"`
	Timestamp int64    `json:"timestamp"`
	Kind      string   `json:"kind"`
	Subtype   string   `json:"subtype,omitempty"`
	FromMe    bool     `json:"from_me"`
	Body      string   `json:"body,omitempty"`
	Subjects  []string `json:"subjects,omitempty"`
}

// SnapshotStorage implements Repository on top of a JSON snapshot file,
// optionally zstd-compressed when the path ends in ".zst".
type SnapshotStorage struct {
	path string
	mu   sync.RWMutex
	data *snapshot
}

// NewSnapshotStorage reads the snapshot at path.
func NewSnapshotStorage(path string) (*SnapshotStorage, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, oops.With("snapshot_path", path, "context", "failed to read snapshot").Wrap(err)
	}

	if isCompressed(path) {
		decoder, err := zstd.NewReader(nil)
		if err != nil {
			return nil, oops.With("context", "failed to create zstd decoder").Wrap(err)
		}
		defer decoder.Close()

		raw, err = decoder.DecodeAll(raw, nil)
		if err != nil {
			return nil, oops.With("snapshot_path", path, "context", "failed to decompress snapshot").Wrap(err)
		}
	}

	var data snapshot
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, oops.With("snapshot_path", path, "context", "failed to unmarshal snapshot").Wrap(err)
	}
	if data.Messages == nil {
		data.Messages = make(map[string][]*snapshotMessage)
	}
	if data.Receipts == nil {
		data.Receipts = make(map[string]*domain.MessageInfo)
	}

	return &SnapshotStorage{path: path, data: &data}, nil
}

func (s *SnapshotStorage) OperatorID(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.OperatorID, nil
}

func (s *SnapshotStorage) GetChats(ctx context.Context) ([]*domain.Chat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return lo.Map(s.data.Chats, func(chat *domain.Chat, _ int) *domain.Chat {
		copied := *chat
		copied.Participants = lo.Map(chat.Participants, func(p *domain.ChatParticipant, _ int) *domain.ChatParticipant {
			cp := *p
			return &cp
		})
		return &copied
	}), nil
}

func (s *SnapshotStorage) FetchMessages(ctx context.Context, chatID string, limit int) ([]*domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	raw := s.data.Messages[chatID]
	if limit > 0 && len(raw) > limit {
		raw = raw[len(raw)-limit:]
	}

	return lo.Map(raw, func(m *snapshotMessage, _ int) *domain.Message {
		return &domain.Message{
			ID:        m.ID,
			ChatID:    chatID,
			Author:    m.Author,
			Timestamp: time.Unix(m.Timestamp, 0),
			Kind:      domain.ContentKind(m.Kind),
			Subtype:   m.Subtype,
			FromMe:    m.FromMe,
			Body:      m.Body,
			Subjects:  append([]string(nil), m.Subjects...),
		}
	}), nil
}

func (s *SnapshotStorage) GetMessageInfo(ctx context.Context, chatID, messageID string) (*domain.MessageInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	info, ok := s.data.Receipts[messageID]
	if !ok {
		return &domain.MessageInfo{}, nil
	}
	return &domain.MessageInfo{
		Read:      append([]string(nil), info.Read...),
		Delivered: append([]string(nil), info.Delivered...),
	}, nil
}

func (s *SnapshotStorage) RemoveParticipants(ctx context.Context, chatID string, ids []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	chat, found := lo.Find(s.data.Chats, func(c *domain.Chat) bool { return c.ID == chatID })
	if !found {
		return oops.With("chat_id", chatID).New("chat not found")
	}

	remove := lo.SliceToMap(ids, func(id string) (string, struct{}) {
		return domain.NormalizeID(id), struct{}{}
	})
	chat.Participants = lo.Reject(chat.Participants, func(p *domain.ChatParticipant, _ int) bool {
		_, ok := remove[domain.NormalizeID(p.ID)]
		return ok
	})

	return s.persist()
}

// persist rewrites the snapshot through a temporary file. Callers hold the write lock.
func (s *SnapshotStorage) persist() error {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return oops.With("snapshot_path", s.path, "context", "failed to marshal snapshot").Wrap(err)
	}

	if isCompressed(s.path) {
		var buf bytes.Buffer
		encoder, err := zstd.NewWriter(&buf)
		if err != nil {
			return oops.With("context", "failed to create zstd encoder").Wrap(err)
		}
		if _, err := encoder.Write(data); err != nil {
			encoder.Close()
			return oops.With("snapshot_path", s.path, "context", "failed to compress snapshot").Wrap(err)
		}
		if err := encoder.Close(); err != nil {
			return oops.With("snapshot_path", s.path, "context", "failed to compress snapshot").Wrap(err)
		}
		data = buf.Bytes()
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".snapshot-*")
	if err != nil {
		return oops.With("snapshot_path", s.path, "context", "failed to create temp file").Wrap(err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return oops.With("snapshot_path", s.path, "context", "failed to write snapshot").Wrap(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return oops.With("snapshot_path", s.path, "context", "failed to write snapshot").Wrap(err)
	}

	return os.Rename(tmpName, s.path)
}

func isCompressed(path string) bool {
	return strings.HasSuffix(path, ".zst")
}
