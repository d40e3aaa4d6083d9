package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestSecureHandlerMasksSensitiveKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		key  string
	}{
		{name: "api key", key: "api_key"},
		{name: "hibp api key", key: "hibp_api_key"},
		{name: "password", key: "password"},
		{name: "authorization header", key: "authorization"},
		{name: "x-api-key header", key: "x-api-key"},
		{name: "access token", key: "access_token"},
		{name: "mixed case key", key: "API_KEY"},
		{name: "keyword substring", key: "github_token"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := slog.New(NewSecureHandler(slog.NewJSONHandler(&buf, nil)))

			logger.Info("test", tt.key, "super-secret-value")

			output := buf.String()
			if !strings.Contains(output, MaskValue) {
				t.Errorf("output %q does not contain mask", output)
			}
			if strings.Contains(output, "super-secret-value") {
				t.Errorf("output %q leaked the raw value", output)
			}
		})
	}
}

func TestSecureHandlerMasksSensitiveValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
	}{
		{name: "jwt", value: "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxIn0.abc123"},
		{name: "bearer token", value: "Bearer abc.def.ghi"},
		{name: "basic auth", value: "Basic dXNlcjpwYXNz"},
		{name: "long api key", value: strings.Repeat("a1B2", 10)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := slog.New(NewSecureHandler(slog.NewJSONHandler(&buf, nil)))

			logger.Info("test", "value", tt.value)

			output := buf.String()
			if !strings.Contains(output, MaskValue) {
				t.Errorf("output %q does not contain mask", output)
			}
			if strings.Contains(output, tt.value) {
				t.Errorf("output %q leaked the raw value", output)
			}
		})
	}
}

func TestSecureHandlerMasksEmails(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewSecureHandler(slog.NewJSONHandler(&buf, nil)))

	logger.Info("scan started", "input", "jane.doe@example.com")

	output := buf.String()
	if !strings.Contains(output, "j***@example.com") {
		t.Errorf("output %q does not contain the masked address", output)
	}
	if strings.Contains(output, "jane.doe@example.com") {
		t.Errorf("output %q leaked the raw address", output)
	}
}

func TestSecureHandlerPreservesNormalAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewSecureHandler(slog.NewJSONHandler(&buf, nil)))

	logger.Info("probe done",
		"platform", "github",
		"exposure_score", 42,
		"found", true,
	)

	output := buf.String()
	for _, want := range []string{`"platform":"github"`, `"exposure_score":42`, `"found":true`} {
		if !strings.Contains(output, want) {
			t.Errorf("output %q does not contain %q", output, want)
		}
	}
	if strings.Contains(output, MaskValue) {
		t.Errorf("output %q masked a normal attribute", output)
	}
}

func TestSecureHandlerMasksInsideGroups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewSecureHandler(slog.NewJSONHandler(&buf, nil)))

	logger.Info("request",
		slog.Group("upstream",
			slog.String("api_key", "group-secret"),
			slog.String("platform", "github"),
		),
	)

	output := buf.String()
	if strings.Contains(output, "group-secret") {
		t.Errorf("output %q leaked a secret inside a group", output)
	}
	if !strings.Contains(output, `"platform":"github"`) {
		t.Errorf("output %q lost a normal group attribute", output)
	}
}

func TestSecureHandlerWithAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewSecureHandler(slog.NewJSONHandler(&buf, nil))).
		With("token", "bound-secret")

	logger.Info("test")

	output := buf.String()
	if strings.Contains(output, "bound-secret") {
		t.Errorf("output %q leaked a pre-bound secret", output)
	}
	if !strings.Contains(output, MaskValue) {
		t.Errorf("output %q does not contain mask", output)
	}
}

func TestSecureHandlerWithGroup(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewSecureHandler(slog.NewJSONHandler(&buf, nil))).
		WithGroup("scan")

	logger.Info("test", "password", "hunter2")

	output := buf.String()
	if strings.Contains(output, "hunter2") {
		t.Errorf("output %q leaked a secret under a group", output)
	}
}

func TestNewSecureLoggerLevels(t *testing.T) {
	t.Parallel()

	t.Run("default level warn", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewSecureLogger(&buf, false)

		logger.Debug("debug message")
		logger.Info("info message")
		if buf.Len() != 0 {
			t.Errorf("got output %q, expected debug and info suppressed", buf.String())
		}

		logger.Warn("warn message")
		if !strings.Contains(buf.String(), "warn message") {
			t.Errorf("got output %q, expected the warning", buf.String())
		}
	})

	t.Run("verbose enables debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewSecureLogger(&buf, true)

		logger.Debug("debug message")
		if !strings.Contains(buf.String(), "debug message") {
			t.Errorf("got output %q, expected the debug message", buf.String())
		}
	})
}

func TestNewSecureJSONLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewSecureJSONLogger(&buf, false)

	logger.Warn("scan", "input", "jane@example.com")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output %q is not valid JSON: %v", buf.String(), err)
	}
	if record["input"] != "j***@example.com" {
		t.Errorf("got input %v, expected the masked address", record["input"])
	}
}

func TestMaskEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		addr string
		want string
	}{
		{name: "dotted local part", addr: "jane.doe@example.com", want: "j***@example.com"},
		{name: "single char local part", addr: "a@b.co", want: "a***@b.co"},
		{name: "multibyte local part", addr: "étienne@example.fr", want: "é***@example.fr"},
		{name: "missing local part", addr: "@example.com", want: MaskValue},
		{name: "not an address", addr: "plainstring", want: MaskValue},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := maskEmail(tt.addr); got != tt.want {
				t.Errorf("got %q, expected %q", got, tt.want)
			}
		})
	}
}
