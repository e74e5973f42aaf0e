// Package keylock даёт взаимное исключение по ключу: операции с разными ключами не блокируют друг друга
package keylock

import "sync"

type entry struct {
	mu   sync.Mutex
	refs int
}

// Locker: набор мьютексов по ключу. Записи удаляются, когда их никто не держит
type Locker[K comparable] struct {
	mu    sync.Mutex
	locks map[K]*entry
}

func New[K comparable]() *Locker[K] {
	return &Locker[K]{locks: make(map[K]*entry)}
}

// Lock захватывает мьютекс ключа и возвращает функцию освобождения
func (l *Locker[K]) Lock(key K) (unlock func()) {
	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &entry{}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}

// Len: число ключей, которые сейчас захвачены или ожидаются
func (l *Locker[K]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
