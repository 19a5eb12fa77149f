package config

import "testing"

func TestDefaults(t *testing.T) {
	conf := Global()
	if conf.Database.Host != "127.0.0.1" || conf.Database.Port != 5432 {
		t.Fatalf("database defaults wrong: %+v", conf.Database)
	}
	if conf.Log.LogLevel != "info" {
		t.Fatalf("log defaults wrong: %+v", conf.Log)
	}
	if conf.Server.Port != 8080 {
		t.Fatalf("server defaults wrong: %+v", conf.Server)
	}
}
