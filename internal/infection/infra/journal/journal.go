package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"Pandemic/internal/infection/app/port"
)

const defaultPrefix = "cascade"

// ZstdJournal 按小时切文件的 JSONL + zstd 爆发日志，一次 PlaceInfection 一行。
// 每次追加都单独编码成一个完整的 zstd frame 写进文件，进程崩溃最多丢正在写的那一行；
// 重启后追加写同一个小时文件仍可顺序解码。
type ZstdJournal struct {
	baseDir string
	prefix  string
	now     func() time.Time

	mu      sync.Mutex
	curHour string
	f       *os.File
	enc     *zstd.Encoder
	buf     []byte
}

func NewZstdJournal(baseDir string) *ZstdJournal {
	return &ZstdJournal{
		baseDir: baseDir,
		prefix:  defaultPrefix,
		now:     time.Now,
	}
}

func (j *ZstdJournal) Append(entry port.JournalEntry) error {
	b, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	hour := j.now().UTC().Format("2006-01-02-15")
	if hour != j.curHour {
		if err := j.rotateLocked(hour); err != nil {
			return err
		}
	}
	j.buf = j.enc.EncodeAll(append(b, '\n'), j.buf[:0])
	_, err = j.f.Write(j.buf)
	return err
}

func (j *ZstdJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.closeLocked()
}

func (j *ZstdJournal) rotateLocked(hour string) error {
	if err := j.closeLocked(); err != nil {
		return err
	}
	path := j.pathForHour(hour)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest), zstd.WithEncoderConcurrency(1))
	if err != nil {
		_ = f.Close()
		return err
	}
	j.f = f
	j.enc = enc
	j.curHour = hour
	return nil
}

func (j *ZstdJournal) closeLocked() error {
	var err error
	if j.enc != nil {
		_ = j.enc.Close()
		j.enc = nil
	}
	if j.f != nil {
		err = j.f.Close()
		j.f = nil
	}
	j.curHour = ""
	return err
}

func (j *ZstdJournal) pathForHour(hour string) string {
	return filepath.Join(j.baseDir, fmt.Sprintf("%s-%s.jsonl.zst", j.prefix, hour))
}

// ReadFile 顺序解码一个日志文件。
func ReadFile(path string) ([]port.JournalEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)

	var out []port.JournalEntry
	for sc.Scan() {
		var e port.JournalEntry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return nil, fmt.Errorf("%s: unmarshal: %w", filepath.Base(path), err)
		}
		out = append(out, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: scan: %w", filepath.Base(path), err)
	}
	return out, nil
}
