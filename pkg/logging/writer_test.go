package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerWriter(t *testing.T) {
	tests := []struct {
		name      string
		writes    []string
		wantLines []string
	}{
		{
			name:      "single line without newline",
			writes:    []string{"updating stack"},
			wantLines: []string{"updating stack"},
		},
		{
			name:      "multiple lines in one write",
			writes:    []string{"line one\nline two\n"},
			wantLines: []string{"line one", "line two"},
		},
		{
			name:      "blank lines are dropped",
			writes:    []string{"\n\nresource created\n\n"},
			wantLines: []string{"resource created"},
		},
		{
			name:      "multiple writes",
			writes:    []string{"first\n", "second\n"},
			wantLines: []string{"first", "second"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)
			core, logs := observer.New(zap.DebugLevel)
			w := NewLoggerWriter(zap.New(core), zap.InfoLevel)

			for _, s := range tt.writes {
				n, err := w.Write([]byte(s))
				assert.NoError(err)
				assert.Equal(len(s), n)
			}

			entries := logs.All()
			if assert.Len(entries, len(tt.wantLines)) {
				for i, want := range tt.wantLines {
					assert.Equal(want, entries[i].Message)
				}
			}
		})
	}
}

func TestLoggerWriter_respectsLevel(t *testing.T) {
	assert := assert.New(t)
	core, logs := observer.New(zap.InfoLevel)
	w := NewLoggerWriter(zap.New(core), zap.DebugLevel)

	_, err := w.Write([]byte("too quiet to surface\n"))
	assert.NoError(err)
	assert.Empty(logs.All())
}
