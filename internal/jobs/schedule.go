package jobs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration в YAML: "5m", "12h" или "7d".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	v, err := ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = Duration(v)
	return nil
}

func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("duration must be positive: %q", s)
	}
	return v, nil
}

type JobSchedule struct {
	Every      Duration `yaml:"every"`
	Enabled    *bool    `yaml:"enabled"`
	RunOnStart bool     `yaml:"run_on_start"`
}

func (j JobSchedule) enabled() bool { return j.Enabled == nil || *j.Enabled }

type Schedule struct {
	Jobs map[string]JobSchedule `yaml:"jobs"`
}

// DefaultSchedule — интервалы как у crontab/celery beat исходного деплоя.
func DefaultSchedule() Schedule {
	return Schedule{Jobs: map[string]JobSchedule{
		"heartbeat": {Every: Duration(5 * time.Minute), RunOnStart: true},
		"replenish": {Every: Duration(12 * time.Hour)},
		"report":    {Every: Duration(7 * 24 * time.Hour)},
		"cleanup":   {Every: Duration(24 * time.Hour)},
		"reminders": {Every: Duration(24 * time.Hour)},
	}}
}

// LoadSchedule читает YAML поверх значений по умолчанию. Пустой путь — только умолчания.
func LoadSchedule(path string) (Schedule, error) {
	s := DefaultSchedule()
	if path == "" {
		return s, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Schedule{}, fmt.Errorf("read schedule: %w", err)
	}
	var file Schedule
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return Schedule{}, fmt.Errorf("parse schedule %s: %w", path, err)
	}

	for name, js := range file.Jobs {
		base, ok := s.Jobs[name]
		if !ok {
			return Schedule{}, fmt.Errorf("schedule %s: unknown job %q", path, name)
		}
		if js.Every == 0 {
			js.Every = base.Every
		}
		s.Jobs[name] = js
	}
	return s, nil
}

// Entries сопоставляет задачи с расписанием; выключенные пропускаются.
func (s Schedule) Entries(jobs ...Job) []Entry {
	entries := make([]Entry, 0, len(jobs))
	for _, j := range jobs {
		js, ok := s.Jobs[j.Name()]
		if !ok || !js.enabled() {
			continue
		}
		entries = append(entries, Entry{Job: j, Interval: time.Duration(js.Every), RunOnStart: js.RunOnStart})
	}
	return entries
}
