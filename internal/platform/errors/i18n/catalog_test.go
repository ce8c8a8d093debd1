package i18n

import "testing"

func TestGetCatalogFallback(t *testing.T) {
	base := GetCatalog("en-US")
	if base == nil {
		t.Fatal("expected base catalog")
	}
	fallback := GetCatalog("missing-locale")
	if fallback.Locale() != BaseLocale {
		t.Fatalf("fallback locale = %q, want %q", fallback.Locale(), BaseLocale)
	}
}

func TestGetCatalogNegotiatesAcceptLanguage(t *testing.T) {
	cat := GetCatalog("pt-BR,pt;q=0.9,en;q=0.5")
	if cat.Locale() != "pt-BR" {
		t.Fatalf("locale = %q, want pt-BR", cat.Locale())
	}
	if got := cat.Format(CodeStorageUnavailable, nil); got != "A ação falhou, nenhum progresso foi perdido." {
		t.Fatalf("message = %q", got)
	}
}

func TestFormatRendersMetadata(t *testing.T) {
	cat := GetCatalog("en-US")
	got := cat.Format(CodePersonAlreadyMet, map[string]string{"PersonName": "Mira"})
	if got != "You have already met Mira." {
		t.Fatalf("message = %q", got)
	}
}

func TestFormatFallbacks(t *testing.T) {
	cat := NewCatalog("test", map[Code]string{
		"code": "hello {{.Name}}",
	})

	if cat.Format("unknown", nil) != "unknown" {
		t.Fatal("expected code fallback when template missing")
	}
	if cat.Format("code", nil) != "hello <no value>" {
		t.Fatal("expected template to render missing metadata")
	}
	if cat.Format(CodeStorageUnavailable, nil) != "Action failed, no progress lost." {
		t.Fatal("expected base locale fallback for missing code")
	}
}

func TestFormatTemplateErrorFallback(t *testing.T) {
	cat := NewCatalog("test", map[Code]string{
		"code": "{{ if .Name }}",
	})
	if cat.Format("code", map[string]string{"Name": "X"}) != "{{ if .Name }}" {
		t.Fatal("expected template fallback on parse error")
	}
}

func TestRegisterCatalog(t *testing.T) {
	custom := NewCatalog("custom", map[Code]string{"code": "ok"})
	RegisterCatalog("custom", custom)
	if got := GetCatalog("custom"); got != custom {
		t.Fatal("expected registered catalog")
	}
}

func TestMessagesCoverEveryLocale(t *testing.T) {
	for code := range builtinMessages[BaseLocale] {
		for locale, messages := range builtinMessages {
			if _, ok := messages[code]; !ok {
				t.Fatalf("locale %s missing %s", locale, code)
			}
		}
	}
}
