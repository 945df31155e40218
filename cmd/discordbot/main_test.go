/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
)

var configKeys = []string{
	"DISCORD_BOT_TOKEN", "DISCORD_PUBLIC_KEY", "DISCORD_APP_ID", "DISCORD_CMD_ID",
	"DISCORD_CMD_HASH", "GOLFSCORE_CACHE_BUCKET", "GOLFSCORE_LOG_LEVEL",
	"GOLFSCORE_LISTEN_ADDR",
}

// clearConfig unsets every config variable for the duration of the test.
func clearConfig(t *testing.T) {
	for _, k := range configKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func testKey(t *testing.T) string {
	pub, _, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	return hex.EncodeToString(pub)
}

func TestLoadConfigFromEnv(t *testing.T) {
	clearConfig(t)
	key := testKey(t)
	t.Setenv("DISCORD_BOT_TOKEN", "tok")
	t.Setenv("DISCORD_APP_ID", "123")
	t.Setenv("DISCORD_PUBLIC_KEY", key)
	t.Setenv("GOLFSCORE_CACHE_BUCKET", "bucket")

	cfg, err := loadConfig(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Token != "tok" || cfg.AppID != "123" || cfg.CacheBucket != "bucket" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if hex.EncodeToString(cfg.PublicKey) != key {
		t.Errorf("public key mismatch")
	}
	if cfg.ListenAddr != ":8080" || cfg.LogLevel != "info" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	clearConfig(t)
	key := testKey(t)
	envFile := filepath.Join(t.TempDir(), "bot.env")
	content := "DISCORD_BOT_TOKEN=filetok\nDISCORD_APP_ID=456\n" +
		"DISCORD_PUBLIC_KEY=" + key + "\nGOLFSCORE_LISTEN_ADDR=:9090\n"
	if err := os.WriteFile(envFile, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := loadConfig(envFile)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Token != "filetok" || cfg.AppID != "456" || cfg.ListenAddr != ":9090" {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"no token", map[string]string{"DISCORD_APP_ID": "1"}, "DISCORD_BOT_TOKEN"},
		{"no app", map[string]string{"DISCORD_BOT_TOKEN": "t"}, "DISCORD_APP_ID"},
		{"bad key", map[string]string{"DISCORD_BOT_TOKEN": "t", "DISCORD_APP_ID": "1",
			"DISCORD_PUBLIC_KEY": "zz"}, "DISCORD_PUBLIC_KEY"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			clearConfig(t)
			for k, v := range c.env {
				t.Setenv(k, v)
			}
			_, err := loadConfig(filepath.Join(t.TempDir(), "missing.env"))
			if err == nil || !strings.Contains(err.Error(), c.want) {
				t.Errorf("err = %v; want mention of %v", err, c.want)
			}
		})
	}
}

func newTestServer(verified bool) *server {
	srv := newServer(nil, newBot(nil))
	srv.verifyReq = func(*http.Request, ed25519.PublicKey) bool { return verified }
	return srv
}

func postInteraction(srv *server, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/DiscordBot/Interaction",
		strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.interactionHandler(rec, req)
	return rec
}

func TestInteractionHandler(t *testing.T) {
	rec := postInteraction(newTestServer(false), `{"type":1}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unverified request status = %v", rec.Code)
	}

	srv := newTestServer(true)
	rec = postInteraction(srv, `{"type":1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("ping status = %v", rec.Code)
	}
	var resp discordgo.InteractionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Type != discordgo.InteractionResponsePong {
		t.Errorf("ping response type = %v", resp.Type)
	}

	rec = postInteraction(srv, `not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad body status = %v", rec.Code)
	}

	cmd := `{"type":2,"channel_id":"c1","data":{"id":"1","name":"golf","type":1,` +
		`"options":[{"name":"new","type":1,"options":[{"name":"players","type":3,"value":"Ann, Bob"}]}]}}`
	rec = postInteraction(srv, cmd)
	if rec.Code != http.StatusOK {
		t.Fatalf("command status = %v", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "New round for Ann, Bob") {
		t.Errorf("unexpected body %v", rec.Body.String())
	}

	unknown := `{"type":2,"data":{"id":"1","name":"chess","type":1}}`
	rec = postInteraction(srv, unknown)
	if !strings.Contains(rec.Body.String(), "unknown command 'chess'") {
		t.Errorf("unexpected body %v", rec.Body.String())
	}
}
