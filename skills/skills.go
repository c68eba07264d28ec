package skills

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const skillFile = "SKILL.md"

// Skill is one discovered SKILL.md package: a header loaded eagerly at
// discovery time, plus enough of a directory listing to know what
// resource files ride alongside it. The full instruction body is
// loaded on demand via LoadInstructions.
type Skill struct {
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	Path              string   `json:"path"`
	Version           string   `json:"version,omitempty"`
	Author            string   `json:"author,omitempty"`
	Tags              []string `json:"tags,omitempty"`
	FrontmatterLoaded bool     `json:"frontmatter_loaded"`
	Resources         []string `json:"resources,omitempty"`
}

// Directory configures one root that DiscoverSkills scans.
type Directory struct {
	Path      string
	Recursive bool // NewDirectory sets this to true; a Directory literal without it scans only the top level
}

// NewDirectory returns a recursively-scanned directory config, the
// default used when callers don't need to opt out.
func NewDirectory(path string) Directory {
	return Directory{Path: path, Recursive: true}
}

// DiscoverSkills scans every configured directory for skill packages.
// A directory that doesn't exist (or isn't readable) contributes
// nothing rather than failing the whole discovery pass, and a
// SKILL.md whose frontmatter lacks a name is skipped — both failure
// modes are silent because skill directories are typically assembled
// from multiple, independently-maintained sources.
func DiscoverSkills(directories []Directory) []Skill {
	var out []Skill
	for _, dir := range directories {
		out = append(out, discoverOne(dir)...)
	}
	return out
}

func discoverOne(dir Directory) []Skill {
	root := dir.Path
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil
	}

	var skillDirs []string
	if dir.Recursive {
		filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
			if err != nil || !d.IsDir() {
				return nil
			}
			if _, serr := os.Stat(filepath.Join(p, skillFile)); serr == nil {
				skillDirs = append(skillDirs, p)
			}
			return nil
		})
	} else {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			p := filepath.Join(root, e.Name())
			if _, serr := os.Stat(filepath.Join(p, skillFile)); serr == nil {
				skillDirs = append(skillDirs, p)
			}
		}
	}
	sort.Strings(skillDirs)

	out := make([]Skill, 0, len(skillDirs))
	for _, p := range skillDirs {
		if s, ok := loadSkillHeader(p); ok {
			out = append(out, s)
		}
	}
	return out
}

func loadSkillHeader(dir string) (Skill, bool) {
	data, err := os.ReadFile(filepath.Join(dir, skillFile))
	if err != nil {
		return Skill{}, false
	}
	front, _ := ParseSkillMD(string(data))

	name, _ := front["name"].(string)
	if strings.TrimSpace(name) == "" {
		return Skill{}, false
	}

	s := Skill{
		Name:              name,
		Path:              dir,
		FrontmatterLoaded: true,
	}
	if v, ok := front["description"].(string); ok {
		s.Description = v
	}
	if v, ok := front["version"].(string); ok {
		s.Version = v
	}
	if v, ok := front["author"].(string); ok {
		s.Author = v
	}
	if v, ok := front["tags"].([]string); ok {
		s.Tags = v
	}

	entries, err := os.ReadDir(dir)
	if err == nil {
		for _, e := range entries {
			if e.IsDir() || e.Name() == skillFile {
				continue
			}
			s.Resources = append(s.Resources, e.Name())
		}
	}
	return s, true
}

// LoadInstructions reads the body of skillPath's SKILL.md — everything
// after the closing frontmatter fence. Returns an "Error: ..." string
// if the skill directory has no SKILL.md.
func LoadInstructions(skillPath string) string {
	data, err := os.ReadFile(filepath.Join(skillPath, skillFile))
	if err != nil {
		return fmt.Sprintf("Error: no SKILL.md found at %s", skillPath)
	}
	_, body := ParseSkillMD(string(data))
	return body
}

// SystemPromptFragment renders the "## Available Skills" section of
// the system prompt. Empty when skills is empty — unlike the todo
// planner's fragment, there is no stable guidance paragraph to show
// when nothing has been discovered.
func SystemPromptFragment(skills []Skill) string {
	if len(skills) == 0 {
		return ""
	}

	lines := []string{"## Available Skills", "", "Invoke a skill by reading its SKILL.md for full instructions.", ""}
	for _, s := range skills {
		line := fmt.Sprintf("- **%s**: %s", s.Name, s.Description)
		if len(s.Tags) > 0 {
			line += fmt.Sprintf(" (tags: %s)", strings.Join(s.Tags, ", "))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
