// Package jenkins transforms generic pipelines into declarative
// Jenkinsfiles. Jenkins is the one target that is not YAML: the IR
// renders itself as Groovy through a string writer.
package jenkins

import (
	"fmt"
	"strings"
)

// Pipeline mirrors the declarative Jenkinsfile structure.
type Pipeline struct {
	Agent       string
	Environment []EnvVar
	Cron        string
	Stages      []Stage
}

// EnvVar is one `environment {}` entry.
type EnvVar struct {
	Name  string
	Value string
}

// Stage is one `stage('...') {}` block.
type Stage struct {
	Name           string
	When           *When
	TimeoutMinutes int
	Steps          []string
}

// When guards a stage.
type When struct {
	BuildingTag bool
	Branch      string
}

// Render writes the pipeline as a declarative Jenkinsfile.
func (p *Pipeline) Render() (string, error) {
	var b strings.Builder
	b.WriteString("pipeline {\n")
	fmt.Fprintf(&b, "    agent %s\n", p.Agent)

	if len(p.Environment) > 0 {
		b.WriteString("    environment {\n")
		for _, e := range p.Environment {
			fmt.Fprintf(&b, "        %s = '%s'\n", e.Name, groovyEscape(e.Value))
		}
		b.WriteString("    }\n")
	}

	if p.Cron != "" {
		b.WriteString("    triggers {\n")
		fmt.Fprintf(&b, "        cron('%s')\n", groovyEscape(p.Cron))
		b.WriteString("    }\n")
	}

	b.WriteString("    stages {\n")
	for _, s := range p.Stages {
		fmt.Fprintf(&b, "        stage('%s') {\n", groovyEscape(s.Name))
		if s.When != nil {
			b.WriteString("            when {\n")
			if s.When.BuildingTag {
				b.WriteString("                buildingTag()\n")
			}
			if s.When.Branch != "" {
				fmt.Fprintf(&b, "                branch '%s'\n", groovyEscape(s.When.Branch))
			}
			b.WriteString("            }\n")
		}
		if s.TimeoutMinutes > 0 {
			b.WriteString("            options {\n")
			fmt.Fprintf(&b, "                timeout(time: %d, unit: 'MINUTES')\n", s.TimeoutMinutes)
			b.WriteString("            }\n")
		}
		b.WriteString("            steps {\n")
		for _, step := range s.Steps {
			fmt.Fprintf(&b, "                %s\n", step)
		}
		b.WriteString("            }\n")
		b.WriteString("        }\n")
	}
	b.WriteString("    }\n")
	b.WriteString("}\n")

	return b.String(), nil
}

// groovyEscape escapes backslashes and single quotes for Groovy
// single-quoted strings. Backslashes first, or the quote escapes would
// be escaped again.
func groovyEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "'", `\'`)
}
