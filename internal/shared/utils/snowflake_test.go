package utils

import (
	"sync"
	"testing"
)

func TestSnowflake_单调递增且唯一(t *testing.T) {
	s, err := NewSnowflake(7)
	if err != nil {
		t.Fatalf("NewSnowflake err=%v", err)
	}

	const n = 5000
	var (
		mu   sync.Mutex
		seen = make(map[int64]struct{}, n)
		wg   sync.WaitGroup
	)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < n/4; j++ {
				id := s.NextID()
				mu.Lock()
				seen[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if len(seen) != n {
		t.Fatalf("期望 %d 个不同 id, got=%d", n, len(seen))
	}

	a, b := s.NextID(), s.NextID()
	if b <= a || a <= 0 {
		t.Fatalf("期望正数且递增, a=%d b=%d", a, b)
	}
}

func TestSnowflake_时钟回拨不回退(t *testing.T) {
	s, _ := NewSnowflake(1)
	ts := snowflakeEpochMilli + 1000
	s.now = func() int64 { return ts }
	first := s.NextID()
	ts -= 500
	second := s.NextID()
	if second <= first {
		t.Fatalf("时钟回拨后 id 不应回退: %d -> %d", first, second)
	}
	_, node, seq := SnowflakeParts(second)
	if node != 1 || seq != 1 {
		t.Fatalf("期望 node=1 seq=1, got node=%d seq=%d", node, seq)
	}
}

func TestNewSnowflake_节点越界(t *testing.T) {
	if _, err := NewSnowflake(1024); err == nil {
		t.Fatalf("期望越界报错")
	}
	if _, err := NewSnowflake(-1); err == nil {
		t.Fatalf("期望越界报错")
	}
}
