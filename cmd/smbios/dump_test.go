package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func TestRunDump(t *testing.T) {
	fs := afero.NewMemMapFs()
	testingImage(t, fs, "/mem.img")

	appFs, memoryFile = fs, "/mem.img"
	t.Cleanup(func() {
		appFs, memoryFile, dumpType = afero.NewOsFs(), "", -1
	})

	tests := []struct {
		name    string
		typ     int
		want    []string
		wantNot []string
		wantErr bool
	}{
		{
			name: "every type",
			typ:  -1,
			want: []string{"SMBIOS 3.2 present (_SM3_).", "Handle 0x0000, DMI type 0, 5 bytes", "String 1: A01"},
		},
		{
			name:    "filtered out",
			typ:     4,
			want:    []string{"SMBIOS 3.2 present"},
			wantNot: []string{"Handle 0x0000"},
		},
		{name: "negative type", typ: -2, wantErr: true},
		{name: "type too large", typ: 256, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dumpType = tt.typ

			var out bytes.Buffer
			cmd := dumpCmd()
			cmd.SetOut(&out)

			err := runDump(cmd, nil)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("runDump() error = nil, want an error")
				}
				if out.Len() != 0 {
					t.Errorf("runDump() printed %q on error", out.String())
				}
				return
			}
			if err != nil {
				t.Fatalf("runDump() error = %v", err)
			}

			for _, w := range tt.want {
				if !strings.Contains(out.String(), w) {
					t.Errorf("runDump() output misses %q:\n%s", w, out.String())
				}
			}
			for _, w := range tt.wantNot {
				if strings.Contains(out.String(), w) {
					t.Errorf("runDump() output contains %q:\n%s", w, out.String())
				}
			}
		})
	}
}
