package console

import (
	"github.com/peterh/liner"
)

// Prompter reads one line of user input after showing a prompt.
type Prompter interface {
	Prompt(prompt string) (string, error)
}

// LinePrompter is a Prompter backed by liner, with in-session history for
// sort and filter expressions.
type LinePrompter struct {
	state *liner.State
}

func NewLinePrompter() *LinePrompter {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	return &LinePrompter{state: state}
}

func (p *LinePrompter) Prompt(prompt string) (string, error) {
	line, err := p.state.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if line != "" {
		p.state.AppendHistory(line)
	}
	return line, nil
}

func (p *LinePrompter) Close() error {
	return p.state.Close()
}
