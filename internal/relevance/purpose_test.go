package relevance

import "testing"

// --- purpose ladder ---

func TestDetectPurpose(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		// Filename rules come first.
		{"app/page.tsx", "Page component"},
		{"app/dashboard/page.ts", "Page component"},
		{"app/layout.tsx", "Layout component"},
		{"app/blog/layout.ts", "Layout component"},

		// Directory rules.
		{"components/Header.tsx", "React component"},
		{"src/components/nav/Menu.tsx", "React component"},
		{"hooks/useAuth.ts", "React hook"},
		{"lib/utils.ts", "Utility library"},
		{"utils/format.ts", "Utility functions"},
		{"types/models.ts", "Type definitions"},
		{"styles/theme.ts", "Stylesheet"},
		{"app/api/users/route.ts", "API route"},
		{"services/billing.ts", "Service module"},

		// Extension rules.
		{"globals.css", "Stylesheet"},
		{"theme.scss", "Stylesheet"},
		{"Widget.tsx", "React component"},
		{"config.ts", "TypeScript module"},
		{"package.json", "Configuration"},
		{"README.md", "Documentation"},

		// Fallback.
		{"Makefile", "Source file"},
		{"main.go", "Source file"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := detectPurpose(tt.path); got != tt.want {
				t.Errorf("detectPurpose(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestDetectPurpose_Precedence(t *testing.T) {
	// A page file inside components/ is still a page: filename wins
	// over directory, directory wins over extension.
	if got := detectPurpose("components/page.tsx"); got != "Page component" {
		t.Errorf("filename precedence: got %q, want Page component", got)
	}
	if got := detectPurpose("components/reset.css"); got != "React component" {
		t.Errorf("directory precedence: got %q, want React component", got)
	}
}

func TestDetectPurpose_DirMatchNeedsBoundary(t *testing.T) {
	// "myutils" is not the path segment "utils"; only the extension
	// rule applies, and .py has none.
	if got := detectPurpose("myutils/helper.py"); got != "Source file" {
		t.Errorf("detectPurpose(myutils/helper.py) = %q, want Source file", got)
	}
	// A nested segment matches anywhere in the path.
	if got := detectPurpose("src/app/hooks/useCart.ts"); got != "React hook" {
		t.Errorf("detectPurpose(src/app/hooks/useCart.ts) = %q, want React hook", got)
	}
}

func TestDetectPurpose_CaseInsensitive(t *testing.T) {
	if got := detectPurpose("Components/Header.TSX"); got != "React component" {
		t.Errorf("got %q, want React component", got)
	}
	if got := detectPurpose("APP/PAGE.TSX"); got != "Page component" {
		t.Errorf("got %q, want Page component", got)
	}
}

// --- language hint ---

func TestLanguageHint(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"components/Header.tsx", "tsx"},
		{"lib/utils.ts", "ts"},
		{"styles/globals.css", "css"},
		{"styles/theme.scss", "scss"},
		{"package.json", "json"},
		{"README.md", "md"},
		{"main.go", ""},
		{"Makefile", ""},
		{"archive.tar.gz", ""},
	}

	for _, tt := range tests {
		if got := languageHint(tt.path); got != tt.want {
			t.Errorf("languageHint(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
