// Package config provides the configuration for ttedit.
//
// Settings come from several sources, higher sources overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Arguments  │  ← Highest priority (applied by the caller)
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← TTEDIT_*
//	├─────────────────────────────┤
//	│  2. Config File             │  ← ~/.config/ttedit/config.toml (or .yaml)
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// # Basic Usage
//
//	cfg, err := config.Load(config.WithFile(path))
//	if err != nil {
//	    return err
//	}
//	fmt.Println(cfg.Editor.Prompt)
//
// # Environment Variables
//
// The common settings have short names (TTEDIT_LOG_LEVEL, TTEDIT_PROMPT,
// TTEDIT_PLAY_DELAY, ...). Any setting can also be reached as
// TTEDIT_<SECTION>__<SETTING>, for example TTEDIT_EDITOR__LABEL_WIDTH.
//
// Durations accept Go duration strings ("600ms") or a number of seconds.
package config
