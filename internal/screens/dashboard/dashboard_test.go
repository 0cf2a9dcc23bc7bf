package dashboard

import (
	"testing"

	"github.com/complyx/complyx/internal/api"
)

func TestNew_OpensOnPreferredStandard(t *testing.T) {
	s := New(Deps{Standard: api.StandardS2})
	if s.standard != api.StandardS2 {
		t.Errorf("standard = %q, want S2", s.standard)
	}
	if s.Title() != "Dashboard · IFRS S2" {
		t.Errorf("title = %q", s.Title())
	}
}

func TestNew_DefaultsToS1(t *testing.T) {
	if s := New(Deps{}); s.standard != api.StandardS1 {
		t.Errorf("standard = %q, want S1", s.standard)
	}
	if s := New(Deps{Standard: api.Standard("bogus")}); s.standard != api.StandardS1 {
		t.Errorf("standard = %q, want S1 fallback", s.standard)
	}
}
