package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(PathEnvVar, "")
	t.Chdir(t.TempDir())

	s, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if s.Recommend.NeighborCount != 5 || s.Recommend.CollabWeight != 0.6 {
		t.Errorf("unexpected recommend defaults: %+v", s.Recommend)
	}
	if s.Server.ReadTimeout != 10*time.Second {
		t.Errorf("ReadTimeout = %v, want 10s", s.Server.ReadTimeout)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shoprec.yaml")
	yml := []byte(`
server:
  addr: ":8080"
data:
  driver: memory
recommend:
  neighbor_count: 7
  rebuild_timeout: 5s
`)
	if err := os.WriteFile(path, yml, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SHOPREC_RECOMMEND_SIMILAR_PER_SEED", "9")
	t.Setenv("SHOPREC_CACHE_TTL", "1m")

	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Server.Addr != ":8080" || s.Data.Driver != "memory" {
		t.Errorf("file values not applied: %+v %+v", s.Server, s.Data)
	}
	if s.Recommend.NeighborCount != 7 || s.Recommend.RebuildTimeout != 5*time.Second {
		t.Errorf("recommend = %+v", s.Recommend)
	}
	if s.Recommend.SimilarPerSeed != 9 {
		t.Errorf("env override SimilarPerSeed = %d, want 9", s.Recommend.SimilarPerSeed)
	}
	if s.Cache.TTL != time.Minute {
		t.Errorf("env override TTL = %v, want 1m", s.Cache.TTL)
	}
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Settings) {}},
		{name: "bad driver", mutate: func(s *Settings) { s.Data.Driver = "mysql" }, wantErr: true},
		{name: "redis without addr", mutate: func(s *Settings) { s.Cache.Backend = "redis" }, wantErr: true},
		{name: "zero neighbours", mutate: func(s *Settings) { s.Recommend.NeighborCount = 0 }, wantErr: true},
		{name: "bad log level", mutate: func(s *Settings) { s.Log.Level = "loud" }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Defaults()
			tt.mutate(&s)
			if err := s.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnvKey(t *testing.T) {
	for in, want := range map[string]string{
		"SHOPREC_SERVER_ADDR":              "server.addr",
		"SHOPREC_RECOMMEND_NEIGHBOR_COUNT": "recommend.neighbor_count",
		"SHOPREC_CONFIG":                   "",
	} {
		if got := envKey(in); got != want {
			t.Errorf("envKey(%q) = %q, want %q", in, got, want)
		}
	}
}
