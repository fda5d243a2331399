// Package script reads the semi-structured six-scene master script back into
// typed scenes and pulls spoken lines out of it for speech synthesis.
package script

import (
	"regexp"
	"strings"

	"topaz-studio/internal/prompt"
)

const (
	narrationMark = "🎙️"
	dialogueMark  = "🗣️"
	separator     = "---"
	minChunk      = 20
)

// Scene is one parsed storyboard beat.
type Scene struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Desc       string `json:"desc"`
	GrokScript string `json:"grok_script"`
	VeoScript  string `json:"veo_script"`
}

type Line struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

var (
	grokHeader   = regexp.MustCompile(`(?is)\[SCENE\s*\d+[^\]]*?GROK\s*6s\]`)
	veoHeader    = regexp.MustCompile(`(?is)\[SCENE\s*\d+[^\]]*?VEO\s*6s\]`)
	sceneOpen    = regexp.MustCompile(`(?i)\[SCENE\s*\d+`)
	visualDetail = regexp.MustCompile(`(?is)ADEGAN_VISUAL:\s*(.*)`)
	quotedAfter  = regexp.MustCompile(`:\s*["“](.*?)["”]`)
	outerQuotes  = regexp.MustCompile(`^["“]|["”]$`)
	visualMarker = regexp.MustCompile(`(?i)ADEGAN_VISUAL`)
	veoTag       = regexp.MustCompile(`(?i)VEO`)
)

// ParseStory splits raw on the scene separator and extracts the GROK block,
// the VEO block and the ADEGAN_VISUAL detail of each of the six scenes.
// Missing scenes come back with only their table name set. grok and veo are
// the non-empty blocks joined by blank lines.
func ParseStory(raw string) (scenes [6]Scene, grok, veo string) {
	var chunks []string
	for _, c := range strings.Split(raw, separator) {
		if c = strings.TrimSpace(c); len(c) > minChunk {
			chunks = append(chunks, c)
		}
	}

	var grokParts, veoParts []string
	for i := range scenes {
		var txt string
		if i < len(chunks) {
			txt = chunks[i]
		}
		s := Scene{ID: i, Name: prompt.StoryboardStructure[i].Name}
		s.GrokScript = grokBlock(txt)
		s.VeoScript = veoBlock(txt)
		if m := visualDetail.FindStringSubmatch(txt); m != nil {
			s.Desc = strings.TrimSpace(m[1])
		}
		if s.GrokScript != "" {
			grokParts = append(grokParts, s.GrokScript)
		}
		if s.VeoScript != "" {
			veoParts = append(veoParts, s.VeoScript)
		}
		scenes[i] = s
	}
	return scenes, strings.Join(grokParts, "\n\n"), strings.Join(veoParts, "\n\n")
}

// grokBlock runs from the GROK header to the first later scene header that
// is followed by a VEO tag, or to ADEGAN_VISUAL, whichever comes first.
func grokBlock(txt string) string {
	loc := grokHeader.FindStringIndex(txt)
	if loc == nil {
		return ""
	}
	tail := txt[loc[1]:]
	end := len(tail)
	if m := visualMarker.FindStringIndex(tail); m != nil {
		end = m[0]
	}
	for _, m := range sceneOpen.FindAllStringIndex(tail[:end], -1) {
		if veoTag.MatchString(tail[m[0]:]) {
			end = m[0]
			break
		}
	}
	return strings.TrimSpace(txt[loc[0] : loc[1]+end])
}

func veoBlock(txt string) string {
	loc := veoHeader.FindStringIndex(txt)
	if loc == nil {
		return ""
	}
	tail := txt[loc[1]:]
	end := len(tail)
	if m := visualMarker.FindStringIndex(tail); m != nil {
		end = m[0]
	}
	return strings.TrimSpace(txt[loc[0] : loc[1]+end])
}

// Dialogue returns the character lines (🗣️ Speaker: "text").
func Dialogue(raw string) []Line {
	var lines []Line
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if !strings.Contains(line, dialogueMark) {
			continue
		}
		content := strings.TrimSpace(strings.Replace(line, dialogueMark, "", 1))
		speaker, text, ok := strings.Cut(content, ":")
		if !ok {
			continue
		}
		speaker = strings.TrimSpace(speaker)
		text = outerQuotes.ReplaceAllString(strings.TrimSpace(text), "")
		if speaker != "" && text != "" {
			lines = append(lines, Line{Speaker: speaker, Text: text})
		}
	}
	return lines
}

// Narration returns the narrator lines as one speakable text.
func Narration(raw string) string {
	return spoken(raw, narrationMark)
}

// FullDialogue returns narrator and character lines in script order.
func FullDialogue(raw string) string {
	return spoken(raw, narrationMark, dialogueMark)
}

func spoken(raw string, marks ...string) string {
	var b strings.Builder
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if !containsAny(line, marks) {
			continue
		}
		if m := quotedAfter.FindStringSubmatch(line); m != nil && m[1] != "" {
			b.WriteString(m[1] + ". ")
			continue
		}
		if _, after, ok := strings.Cut(line, ":"); ok {
			if content := outerQuotes.ReplaceAllString(strings.TrimSpace(after), ""); content != "" {
				b.WriteString(content + ". ")
			}
		}
	}
	return b.String()
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
