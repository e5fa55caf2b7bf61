package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Tomlord1122/todo-tracker/internal/domain"
)

// subscription bridges cache notifications into the tea event loop. Only the
// latest list matters, so the mailbox holds one value and older ones are
// dropped instead of blocking the notifying goroutine.
type subscription struct {
	ch          chan []domain.Todo
	done        chan struct{}
	closeOnce   sync.Once
	unsubscribe func()
}

func subscribe(svc TodoService) *subscription {
	s := &subscription{
		ch:   make(chan []domain.Todo, 1),
		done: make(chan struct{}),
	}
	s.unsubscribe = svc.Subscribe(s.push)
	return s
}

func (s *subscription) push(todos []domain.Todo) {
	for {
		select {
		case <-s.done:
			return
		case s.ch <- todos:
			return
		default:
		}
		select {
		case <-s.ch:
		default:
		}
	}
}

// wait blocks until the next cache value or until the subscription closes.
func (s *subscription) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case todos := <-s.ch:
			return todosChangedMsg(todos)
		case <-s.done:
			return nil
		}
	}
}

func (s *subscription) close() {
	s.closeOnce.Do(func() {
		s.unsubscribe()
		close(s.done)
	})
}
