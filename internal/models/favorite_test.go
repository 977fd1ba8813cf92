package models

import "testing"

func TestParseTargetKind(t *testing.T) {
	cases := []struct {
		raw     string
		want    TargetKind
		wantErr bool
	}{
		{"post", TargetKindPost, false},
		{"user", TargetKindUser, false},
		{"comment", "", true},
		{"Post", "", true},
		{"", "", true},
	}

	for _, tc := range cases {
		kind, err := ParseTargetKind(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseTargetKind(%q): ожидалась ошибка", tc.raw)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTargetKind(%q): %v", tc.raw, err)
			continue
		}
		if kind != tc.want {
			t.Errorf("ParseTargetKind(%q) = %q, ожидалось %q", tc.raw, kind, tc.want)
		}
	}
}

func TestFavoriteRef(t *testing.T) {
	f := Favorite{ID: 1, UserID: 2, ParentType: TargetKindPost, ParentID: 7}
	ref := f.Ref()
	if ref.Kind != TargetKindPost || ref.ID != 7 {
		t.Errorf("Ref() = %+v, ожидалось {post 7}", ref)
	}
}
