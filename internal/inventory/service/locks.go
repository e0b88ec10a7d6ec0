package service

import "sync"

// sessionLocks 每个盘点单一把锁，保证单写者：
// 对账重算与草稿重建在同一盘点单上串行，不同盘点单互不影响。
type sessionLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{m: make(map[string]*sync.Mutex)}
}

// acquire 锁定指定盘点单，返回解锁函数
func (l *sessionLocks) acquire(sessionID string) func() {
	l.mu.Lock()
	lock, ok := l.m[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		l.m[sessionID] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
