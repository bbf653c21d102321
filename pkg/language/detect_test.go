package language_test

import (
	"testing"

	"github.com/yaklabco/quickfix/pkg/language"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		filename string
		content  string
		want     language.Tag
	}{
		{
			name:     "python by extension",
			filename: "src/app/main.py",
			content:  "def main():\n    pass\n",
			want:     language.TagPython,
		},
		{
			name:     "go by extension",
			filename: "main.go",
			content:  "package main\n",
			want:     language.TagGo,
		},
		{
			name:     "java by extension",
			filename: "Duck.java",
			content:  "class Duck {}\n",
			want:     language.TagJava,
		},
		{
			name:     "dockerfile by name",
			filename: "build/Dockerfile",
			content:  "FROM alpine:3.20\n",
			want:     language.TagDockerfile,
		},
		{
			name:     "shell by shebang",
			filename: "run",
			content:  "#!/bin/bash\necho hello\n",
			want:     language.TagShell,
		},
		{
			name:     "python by shebang",
			filename: "tool",
			content:  "#!/usr/bin/env python3\nprint('hi')\n",
			want:     language.TagPython,
		},
		{
			name:     "unknown",
			filename: "notes.zzz-unknown",
			content:  "",
			want:     language.TagUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := language.Detect(tt.filename, []byte(tt.content)); got != tt.want {
				t.Errorf("Detect(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}

func BenchmarkDetect(b *testing.B) {
	content := []byte("def hello():\n    print('Hello, World!')\n")
	for range b.N {
		language.Detect("hello.py", content)
	}
}
