package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testYAML = `
app:
  name: tube-go
  version: 1.0.0
  mode: debug
  port: 8000

database:
  host: 127.0.0.1
  port: 5432
  user: tube
  password: secret
  dbname: tube
  sslmode: disable
  max_open_conns: 50
  max_idle_conns: 10
  conn_max_lifetime: 3600

redis:
  host: 127.0.0.1
  port: 6379
  password: ""
  db: 0
  pool_size: 20

minio:
  endpoint: 127.0.0.1:9000
  access_key: minioadmin
  secret_key: minioadmin
  use_ssl: false
  buckets:
    - raw-videos
    - public-videos
    - channel-images

kafka:
  brokers:
    - 127.0.0.1:9092
  topics:
    video_transcode: video-transcode-tasks
    video_uploaded: video-transcode-results

elasticsearch:
  hosts:
    - 127.0.0.1:9200
  index:
    videos: videos

jwt:
  secret: test-secret
  expire_hours: 72

log:
  level: debug
  format: console
  output: stdout
  file_path: logs/app.log
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(testYAML), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeTestConfig(t))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.App.Name != "tube-go" || cfg.App.Port != 8000 {
		t.Errorf("unexpected app config: %+v", cfg.App)
	}
	if cfg.Database.DBName != "tube" || cfg.Database.MaxOpenConns != 50 {
		t.Errorf("unexpected database config: %+v", cfg.Database)
	}
	if len(cfg.MinIO.Buckets) != 3 {
		t.Errorf("expected 3 buckets, got %v", cfg.MinIO.Buckets)
	}
	if cfg.Kafka.Topics["video_transcode"] != "video-transcode-tasks" {
		t.Errorf("unexpected kafka topics: %v", cfg.Kafka.Topics)
	}
	if cfg.Elasticsearch.Index["videos"] != "videos" {
		t.Errorf("unexpected es index map: %v", cfg.Elasticsearch.Index)
	}
	if cfg.JWT.ExpireDuration() != 72*time.Hour {
		t.Errorf("ExpireDuration = %v, want 72h", cfg.JWT.ExpireDuration())
	}
}

func TestLoad_FileMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestDSNAndAddr(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "tube", SSLMode: "disable"}
	want := "host=db port=5432 user=u password=p dbname=tube sslmode=disable"
	if got := d.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}

	r := RedisConfig{Host: "cache", Port: 6379}
	if got := r.Addr(); got != "cache:6379" {
		t.Errorf("Addr() = %q, want cache:6379", got)
	}
}

func TestGet_AfterLoad(t *testing.T) {
	if _, err := Load(writeTestConfig(t)); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if Get().JWT.Secret != "test-secret" {
		t.Error("Get should return the loaded config")
	}
}
