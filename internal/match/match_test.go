package match

import "testing"

func TestMatch(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		list    Watchlist
		wantHit Hit
		wantOK  bool
	}{
		{
			name:    "character hit",
			text:    "Bob says hi",
			list:    Watchlist{Characters: []string{"Bob"}},
			wantHit: Hit{Category: Character, Term: "Bob"},
			wantOK:  true,
		},
		{
			name:   "case mismatch",
			text:   "bob says hi",
			list:   Watchlist{Characters: []string{"Bob"}},
			wantOK: false,
		},
		{
			name:    "system substring",
			text:    "[ 2023.01.01 00:00:02 ] Scout > hostile in target-system-ish",
			list:    Watchlist{Systems: []string{"target-system"}},
			wantHit: Hit{Category: System, Term: "target-system"},
			wantOK:  true,
		},
		{
			name:    "characters win over systems",
			text:    "Bob in Jita",
			list:    Watchlist{Characters: []string{"Bob"}, Systems: []string{"Jita"}},
			wantHit: Hit{Category: Character, Term: "Bob"},
			wantOK:  true,
		},
		{
			name:    "first listed term wins",
			text:    "Alice and Bob",
			list:    Watchlist{Characters: []string{"Bob", "Alice"}},
			wantHit: Hit{Category: Character, Term: "Bob"},
			wantOK:  true,
		},
		{
			name:   "empty term never matches",
			text:   "anything",
			list:   Watchlist{Characters: []string{""}, Systems: []string{""}},
			wantOK: false,
		},
		{
			name:   "empty watchlist",
			text:   "anything",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := Match(tt.text, tt.list)
			if ok != tt.wantOK {
				t.Fatalf("Match(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
			}
			if hit != tt.wantHit {
				t.Fatalf("Match(%q) = %+v, want %+v", tt.text, hit, tt.wantHit)
			}
		})
	}
}

func TestCategoryString(t *testing.T) {
	if got := System.String(); got != "system" {
		t.Fatalf("System.String() = %q, want %q", got, "system")
	}
	if got := Category(9).String(); got != "unknown" {
		t.Fatalf("Category(9).String() = %q, want %q", got, "unknown")
	}
}

func TestWatchlistEmpty(t *testing.T) {
	tests := []struct {
		list Watchlist
		want bool
	}{
		{Watchlist{}, true},
		{Watchlist{Characters: []string{}}, true},
		{Watchlist{Characters: []string{"Bob"}}, false},
		{Watchlist{Systems: []string{"Jita"}}, false},
	}
	for _, tt := range tests {
		if got := tt.list.Empty(); got != tt.want {
			t.Fatalf("%+v.Empty() = %v, want %v", tt.list, got, tt.want)
		}
	}
}
