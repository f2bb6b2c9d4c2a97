package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dietpix/models"
)

func TestRootHelp(t *testing.T) {
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"--help"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute root help: %v", err)
	}
	if !strings.Contains(buf.String(), "serve") {
		t.Fatalf("expected serve in help output: %s", buf.String())
	}
}

func TestNormalizeFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.txt")
	raw := "Aqui está:\n```json\n{\"breakfast\":{\"main\":[\"Ovos\"]},\"lunch\":{\"main\":[]},\"dinner\":{\"main\":[]}}\n```"
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatal(err)
	}

	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"normalize", path})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("normalize: %v", err)
	}

	var plan models.DietPlan
	if err := json.Unmarshal(buf.Bytes(), &plan); err != nil {
		t.Fatalf("output is not a plan: %v\n%s", err, buf.String())
	}
	if plan.Breakfast == nil || len(plan.Breakfast.Main) != 3 || plan.Breakfast.Main[0].Name != "Ovos" {
		t.Fatalf("unexpected plan %+v", plan.Breakfast)
	}
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetIn(strings.NewReader("não é json"))
	rootCmd.SetArgs([]string{"normalize"})

	if err := rootCmd.Execute(); err == nil {
		t.Fatal("expected an error for unusable input")
	}
	if !strings.Contains(out.String(), "Erro ao processar dieta") {
		t.Fatalf("error plan not printed: %s", out.String())
	}
}
