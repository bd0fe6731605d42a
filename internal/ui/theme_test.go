package ui

import "testing"

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	if len(names) != 2 {
		t.Fatalf("ThemeNames() returned %d names, want 2", len(names))
	}
	if names[0] != themeDark || names[1] != themeLight {
		t.Fatalf("ThemeNames() = %v, want [%s %s]", names, themeDark, themeLight)
	}
}

func TestNextTheme(t *testing.T) {
	if got := NextTheme(themeDark); got != themeLight {
		t.Fatalf("NextTheme(%s) = %q, want %s", themeDark, got, themeLight)
	}
	if got := NextTheme(themeLight); got != themeDark {
		t.Fatalf("NextTheme(%s) = %q, want %s", themeLight, got, themeDark)
	}
	if got := NextTheme("Dracula"); got != themeDark {
		t.Fatalf("NextTheme(unknown) = %q, want %s", got, themeDark)
	}
}

func TestGetTheme_UnknownFallsBackToDark(t *testing.T) {
	if got := GetTheme("nope").Name; got != themeDark {
		t.Fatalf("GetTheme(nope).Name = %q, want %s", got, themeDark)
	}
	if got := GetTheme(themeLight).Name; got != themeLight {
		t.Fatalf("GetTheme(%s).Name = %q", themeLight, got)
	}
}
