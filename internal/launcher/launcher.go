// Package launcher starts native applications from spoken names. It owns
// alias resolution: many spoken forms map to one canonical executable.
package launcher

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Result reports the outcome of a launch attempt. Unknown software and
// failed execution are unsuccessful results with a message, not errors —
// the dispatcher decides the fallback.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// aliasConfig is the YAML overlay format: canonical name -> spoken forms,
// plus canonical name -> executable.
type aliasConfig struct {
	Aliases     map[string][]string `yaml:"aliases"`
	Executables map[string]string   `yaml:"executables"`
}

// Service resolves spoken names to executables and launches them.
type Service struct {
	mu          sync.RWMutex
	order       []string
	aliases     map[string][]string
	executables map[string]string
	watcher     *fsnotify.Watcher

	// run is swapped out in tests.
	run func(executable string) error
}

// NewService creates a launcher with the built-in software map, optionally
// overlaid with a YAML config file.
func NewService(configPath string) *Service {
	s := &Service{
		order:       defaultOrder(),
		aliases:     defaultAliases(),
		executables: defaultExecutables(),
		run:         runExecutable,
	}

	if configPath != "" {
		if err := s.loadConfig(configPath); err != nil {
			log.Printf("⚠️ [LAUNCHER] Could not load alias config %s: %v", configPath, err)
		}
		s.watchConfig(configPath)
	}

	return s
}

// Launch resolves the spoken name and starts the matching executable.
func (s *Service) Launch(softwareName string) Result {
	name := strings.TrimSpace(softwareName)
	if name == "" {
		return Result{Success: false, Message: "Software name is required."}
	}

	executable := s.resolve(name)
	if executable == "" {
		return Result{Success: false, Message: fmt.Sprintf("I don't know how to open %s.", name)}
	}

	log.Printf("🚀 [LAUNCHER] Launching %s (%s)", name, executable)
	if err := s.run(executable); err != nil {
		log.Printf("❌ [LAUNCHER] Launch failed: %v", err)
		return Result{Success: false, Message: fmt.Sprintf("Could not open %s.", name)}
	}

	return Result{Success: true, Message: fmt.Sprintf("Opened %s.", name)}
}

// resolve finds the executable whose aliases contain the spoken input.
// Keys are tried in fixed order so overlapping aliases always resolve the
// same way.
func (s *Service) resolve(spoken string) string {
	input := strings.ToLower(spoken)

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, key := range s.order {
		for _, alias := range s.aliases[key] {
			if strings.Contains(input, alias) {
				return s.executables[key]
			}
		}
	}
	return ""
}

// loadConfig merges a YAML overlay over the built-in maps.
func (s *Service) loadConfig(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read alias config: %w", err)
	}

	var cfg aliasConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to parse alias config: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var added []string
	for key, aliases := range cfg.Aliases {
		if _, known := s.aliases[key]; !known {
			added = append(added, key)
		}
		s.aliases[key] = aliases
	}
	for key, exe := range cfg.Executables {
		s.executables[key] = exe
	}
	// New keys go after the built-ins, alphabetically, so lookup order stays
	// stable across reloads
	sort.Strings(added)
	s.order = append(s.order, added...)

	log.Printf("✅ [LAUNCHER] Alias config loaded (%d alias groups, %d executables)",
		len(cfg.Aliases), len(cfg.Executables))
	return nil
}

// watchConfig reloads the overlay when the file changes on disk.
func (s *Service) watchConfig(path string) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("⚠️ [LAUNCHER] Could not watch alias config: %v", err)
		return
	}
	if err := watcher.Add(path); err != nil {
		log.Printf("⚠️ [LAUNCHER] Could not watch %s: %v", path, err)
		watcher.Close()
		return
	}
	s.watcher = watcher

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					log.Printf("🔄 [LAUNCHER] Alias config changed, reloading")
					if err := s.loadConfig(path); err != nil {
						log.Printf("⚠️ [LAUNCHER] Reload failed: %v", err)
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("⚠️ [LAUNCHER] Watcher error: %v", err)
			}
		}
	}()
}

// Close stops the config watcher.
func (s *Service) Close() {
	if s.watcher != nil {
		s.watcher.Close()
	}
}

// runExecutable hands the executable to the platform shell.
func runExecutable(executable string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/C", "start", "", executable)
	case "darwin":
		cmd = exec.Command("open", "-a", executable)
	default:
		cmd = exec.Command(executable)
	}
	return cmd.Start()
}
