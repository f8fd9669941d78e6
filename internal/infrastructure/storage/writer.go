package storage

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"tactics-server/internal/domain"
)

const (
	MagicHeader string = `TCRP` // 4 байта
	Version1    uint32 = 1
)

// ReplayFileHeader - это точное представление заголовка файла в памяти.
// binary.Write умеет писать это целиком, так как тут нет слайсов и строк, только массивы и числа.
type ReplayFileHeader struct {
	Magic       [4]byte // 4 байта
	Version     uint32  // 4 байта
	Seed        int64   // 8 байт
	Timestamp   int64   // 8 байт
	ActionCount int32   // 4 байта
}

// ActionHeader - заголовок каждой записи действия.
type ActionHeader struct {
	Tick       int32  // 4
	ActionType uint8  // 1
	ActorLen   uint8  // 1
	PayloadLen uint16 // 2
}

// Writer накапливает действия боя и при Close сбрасывает их в .tcrp файл.
// Писать инкрементально нельзя: ActionCount стоит в заголовке.
type Writer struct {
	mu      sync.Mutex
	saveDir string
	session domain.ReplaySession
	closed  bool
}

func NewWriter(dir string, seed int64) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create replay dir: %w", err)
	}
	return &Writer{
		saveDir: dir,
		session: domain.ReplaySession{
			Seed:      seed,
			Timestamp: time.Now().Unix(),
		},
	}, nil
}

// WriteAction добавляет действие в сессию.
func (w *Writer) WriteAction(act domain.ReplayAction) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return fmt.Errorf("replay writer already closed")
	}
	if len(act.ActorID) > 255 {
		return fmt.Errorf("actor id too long: %d", len(act.ActorID))
	}
	if len(act.Payload) > 65535 {
		return fmt.Errorf("payload too long: %d", len(act.Payload))
	}

	w.session.Actions = append(w.session.Actions, act)
	return nil
}

// Close записывает файл и закрывает сессию.
func (w *Writer) Close() (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return "", fmt.Errorf("replay writer already closed")
	}
	w.closed = true

	filename := fmt.Sprintf("replay_%d_%d.tcrp", w.session.Seed, w.session.Timestamp)
	path := filepath.Join(w.saveDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := writeBinary(f, &w.session); err != nil {
		return "", err
	}
	return path, nil
}

func writeBinary(w io.Writer, s *domain.ReplaySession) error {
	// 1. Подготавливаем и пишем ГЛОБАЛЬНЫЙ ЗАГОЛОВОК
	header := ReplayFileHeader{
		Version:     Version1,
		Seed:        s.Seed,
		Timestamp:   s.Timestamp,
		ActionCount: int32(len(s.Actions)),
	}
	copy(header.Magic[:], MagicHeader) // Копируем строку в массив [4]byte

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	// 2. Пишем действия
	for _, act := range s.Actions {
		actorBytes := []byte(act.ActorID)

		actHeader := ActionHeader{
			Tick:       int32(act.Tick),
			ActionType: uint8(act.Action),
			ActorLen:   uint8(len(actorBytes)),
			PayloadLen: uint16(len(act.Payload)),
		}

		if err := binary.Write(w, binary.LittleEndian, &actHeader); err != nil {
			return err
		}

		// Динамические данные (тело)
		if _, err := w.Write(actorBytes); err != nil {
			return err
		}
		if len(act.Payload) > 0 {
			if _, err := w.Write(act.Payload); err != nil {
				return err
			}
		}
	}

	return nil
}
