package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/instalogic/sitebot/internal/models"
)

func TestGetOrCreateIdleDefaults(t *testing.T) {
	s := NewStore()
	sess := s.GetOrCreate("sess-1")
	if sess.State != models.StateIdle {
		t.Errorf("new session state = %q, want idle", sess.State)
	}
	if len(sess.Fields) != 0 {
		t.Errorf("new session fields = %v, want empty", sess.Fields)
	}
	if sess.CreatedAt.IsZero() || sess.LastUpdated.IsZero() {
		t.Error("expected timestamps to be set on creation")
	}
}

func TestUpdateMergesFields(t *testing.T) {
	s := NewStore()
	s.GetOrCreate("sess-1")

	s.Update("sess-1", models.StateDemoAwaitingName, map[models.DataKey]string{
		models.DataKeyIndustry: "Finance",
	})
	s.Update("sess-1", models.StateDemoAwaitingEmail, map[models.DataKey]string{
		models.DataKeyName: "Jane Doe",
	})

	sess := s.GetOrCreate("sess-1")
	if sess.State != models.StateDemoAwaitingEmail {
		t.Errorf("state = %q, want %q", sess.State, models.StateDemoAwaitingEmail)
	}
	if sess.Fields[models.DataKeyIndustry] != "Finance" {
		t.Errorf("industry = %q, want Finance", sess.Fields[models.DataKeyIndustry])
	}
	if sess.Fields[models.DataKeyName] != "Jane Doe" {
		t.Errorf("name = %q, want Jane Doe", sess.Fields[models.DataKeyName])
	}
}

func TestUpdateOverwritesField(t *testing.T) {
	s := NewStore()
	s.Update("sess-1", models.StateDemoAwaitingName, map[models.DataKey]string{
		models.DataKeyIndustry: "Finance",
	})
	s.Update("sess-1", models.StateDemoAwaitingName, map[models.DataKey]string{
		models.DataKeyIndustry: "Healthcare",
	})
	sess := s.GetOrCreate("sess-1")
	if sess.Fields[models.DataKeyIndustry] != "Healthcare" {
		t.Errorf("industry = %q, want Healthcare", sess.Fields[models.DataKeyIndustry])
	}
}

func TestClearResetsButKeepsCreatedAt(t *testing.T) {
	s := NewStore()
	created := s.GetOrCreate("sess-1").CreatedAt
	s.Update("sess-1", models.StateDemoAwaitingEmail, map[models.DataKey]string{
		models.DataKeyName: "Jane",
	})

	s.Clear("sess-1")

	sess := s.GetOrCreate("sess-1")
	if sess.State != models.StateIdle {
		t.Errorf("state after clear = %q, want idle", sess.State)
	}
	if len(sess.Fields) != 0 {
		t.Errorf("fields after clear = %v, want empty", sess.Fields)
	}
	if !sess.CreatedAt.Equal(created) {
		t.Error("CreatedAt changed across Clear")
	}
}

func TestClearUnknownSessionIsNoop(t *testing.T) {
	s := NewStore()
	s.Clear("never-seen")
	sess := s.GetOrCreate("never-seen")
	if sess.State != models.StateIdle {
		t.Errorf("state = %q, want idle", sess.State)
	}
}

func TestCopyIsolation(t *testing.T) {
	s := NewStore()
	s.Update("sess-1", models.StateDemoAwaitingName, map[models.DataKey]string{
		models.DataKeyIndustry: "Finance",
	})
	sess := s.GetOrCreate("sess-1")
	sess.Fields[models.DataKeyIndustry] = "mutated"

	again := s.GetOrCreate("sess-1")
	if again.Fields[models.DataKeyIndustry] != "Finance" {
		t.Error("mutating a returned copy leaked into the store")
	}
}

func TestConcurrentAccess(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("sess-%d", n%8)
			s.GetOrCreate(id)
			s.Update(id, models.StateDemoAwaitingName, map[models.DataKey]string{
				models.DataKeyName: "x",
			})
			s.GetOrCreate(id)
			if n%4 == 0 {
				s.Clear(id)
			}
		}(i)
	}
	wg.Wait()
}
