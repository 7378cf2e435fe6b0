// Command assemble-docs builds a user manual offline from a JSON config,
// without a running server or database. Useful for previewing templates and
// module content.
//
// Usage:
//
//	assemble-docs <config.json> <output> [template.docx]
//
// The config selects the enabled product modules and the variables
// substituted into them:
//
//	{
//	  "projectName": "Atlas rollout",
//	  "features": ["SSO", "Audit Log"],
//	  "products": [
//	    {"name": "Gateway", "module": "modules/gateway.md", "enabled": true}
//	  ],
//	  "variables": {"region": "eu-west"}
//	}
//
// A .docx output requires the template argument; anything else emits
// Markdown.
package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/reactivetech/go-board-backend/internal/docs"
)

type productModule struct {
	Name    string `json:"name"`
	Module  string `json:"module"`
	Enabled bool   `json:"enabled"`
}

type assembleConfig struct {
	ProjectName string            `json:"projectName"`
	Features    []string          `json:"features"`
	Products    []productModule   `json:"products"`
	Variables   map[string]string `json:"variables"`
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if len(os.Args) < 3 {
		log.Fatal().Msg("usage: assemble-docs <config.json> <output> [template.docx]")
	}
	configPath, outputPath := os.Args[1], os.Args[2]
	templatePath := ""
	if len(os.Args) > 3 {
		templatePath = os.Args[3]
	}

	raw, err := os.ReadFile(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", configPath).Msg("read config")
	}
	var cfg assembleConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		log.Fatal().Err(err).Str("path", configPath).Msg("parse config")
	}
	if cfg.ProjectName == "" {
		log.Fatal().Msg("config is missing projectName")
	}

	// Module paths resolve relative to the config file.
	baseDir := filepath.Dir(configPath)
	var fragments []string
	for _, p := range cfg.Products {
		if !p.Enabled || p.Module == "" {
			continue
		}
		path := p.Module
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatal().Err(err).Str("product", p.Name).Str("path", path).Msg("read module")
		}
		fragments = append(fragments, string(data))
	}
	if len(fragments) == 0 {
		log.Fatal().Msg("no enabled product modules resolved")
	}

	content := docs.AssembleManual(cfg.ProjectName, cfg.Features, fragments)
	if len(cfg.Variables) > 0 {
		content = docs.SubstituteVars(content, cfg.Variables)
	}

	data := []byte(content)
	if strings.EqualFold(filepath.Ext(outputPath), ".docx") {
		if templatePath == "" {
			log.Fatal().Msg("a DOCX output requires the template argument")
		}
		tmpl, err := os.ReadFile(templatePath)
		if err != nil {
			log.Fatal().Err(err).Str("path", templatePath).Msg("read template")
		}
		data, err = docs.BuildDocx(tmpl, content)
		if err != nil {
			log.Fatal().Err(err).Msg("fill template")
		}
	}

	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		log.Fatal().Err(err).Str("path", outputPath).Msg("write manual")
	}
	log.Info().Str("path", outputPath).Int("bytes", len(data)).Msg("manual written")
}
