package export

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"sync"

	"github.com/golang/snappy"
	"github.com/rs/zerolog/log"

	"github.com/Surya-0/SCM-Builder/pkg/infrastructure/events"
)

// BatchWriter appends operation batches to a file as snappy-compressed JSON
// frames, so a consumer can replay them in order
type BatchWriter struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	writer *bufio.Writer

	written           int
	bytesUncompressed uint64
	bytesCompressed   uint64
}

// NewBatchWriter creates or truncates the batch file at path
func NewBatchWriter(path string) (*BatchWriter, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create batch file %s: %w", path, err)
	}
	return &BatchWriter{path: path, file: file, writer: bufio.NewWriter(file)}, nil
}

// Write appends one batch
func (w *BatchWriter) Write(batch events.Batch) error {
	data, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("failed to encode batch %s: %w", batch.ID, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	compressed := snappy.Encode(nil, data)
	if err := w.writeFrame(compressed); err != nil {
		return fmt.Errorf("failed to write batch %s: %w", batch.ID, err)
	}

	w.written++
	w.bytesUncompressed += uint64(len(data))
	w.bytesCompressed += uint64(len(compressed))
	return nil
}

// WriteLog splits l into batches of size and appends them all. It returns
// the number of batches written.
func (w *BatchWriter) WriteLog(l *events.Log, size int) (int, error) {
	batches, err := l.Batches(size)
	if err != nil {
		return 0, err
	}
	for _, batch := range batches {
		if err := w.Write(batch); err != nil {
			return 0, err
		}
	}
	log.Debug().Str("log", l.Name()).Int("batches", len(batches)).Str("path", w.path).Msg("operation log exported")
	return len(batches), nil
}

// Written returns the number of batches appended so far
func (w *BatchWriter) Written() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.written
}

// CompressionRatio returns compressed bytes over uncompressed bytes
func (w *BatchWriter) CompressionRatio() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.bytesUncompressed == 0 {
		return 0
	}
	return float64(w.bytesCompressed) / float64(w.bytesUncompressed)
}

// Close flushes and closes the file
func (w *BatchWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.writer.Flush(); err != nil {
		w.file.Close()
		return fmt.Errorf("failed to flush batch file: %w", err)
	}
	return w.file.Close()
}

// writeFrame writes [DataLen:4][Data:N][Checksum:4]
func (w *BatchWriter) writeFrame(data []byte) error {
	if err := binary.Write(w.writer, binary.BigEndian, uint32(len(data))); err != nil {
		return err
	}
	if _, err := w.writer.Write(data); err != nil {
		return err
	}
	return binary.Write(w.writer, binary.BigEndian, crc32.ChecksumIEEE(data))
}

// ReadBatches reads every batch of a file written by BatchWriter
func ReadBatches(path string) ([]events.Batch, error) {
	var batches []events.Batch
	err := Replay(path, func(b events.Batch) error {
		batches = append(batches, b)
		return nil
	})
	return batches, err
}

// Replay calls handler for each batch of the file in write order
func Replay(path string, handler func(events.Batch) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open batch file %s: %w", path, err)
	}
	defer file.Close()

	reader := bufio.NewReader(file)
	for frame := 0; ; frame++ {
		var dataLen uint32
		if err := binary.Read(reader, binary.BigEndian, &dataLen); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read frame %d: %w", frame, err)
		}

		compressed := make([]byte, dataLen)
		if _, err := io.ReadFull(reader, compressed); err != nil {
			return fmt.Errorf("failed to read frame %d: %w", frame, err)
		}

		var checksum uint32
		if err := binary.Read(reader, binary.BigEndian, &checksum); err != nil {
			return fmt.Errorf("failed to read checksum of frame %d: %w", frame, err)
		}
		if crc32.ChecksumIEEE(compressed) != checksum {
			return fmt.Errorf("checksum mismatch for frame %d", frame)
		}

		data, err := snappy.Decode(nil, compressed)
		if err != nil {
			return fmt.Errorf("failed to decompress frame %d: %w", frame, err)
		}

		var batch events.Batch
		if err := json.Unmarshal(data, &batch); err != nil {
			return fmt.Errorf("failed to decode frame %d: %w", frame, err)
		}
		if err := handler(batch); err != nil {
			return err
		}
	}
}
