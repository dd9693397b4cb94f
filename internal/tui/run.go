package tui

import (
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/browser"
)

// Result 返回 TUI 退出后的必要信息。
type Result struct {
	History []string
}

// Run 封装 Bubble Tea 入口，阻塞直到用户退出。
func Run(opts Options, altScreen bool) (Result, error) {
	// browser 默认把子进程输出写到 stdout，会破坏画面。
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard

	programOptions := []tea.ProgramOption{tea.WithMouseCellMotion()}
	if altScreen {
		programOptions = append(programOptions, tea.WithAltScreen())
	}
	if opts.Context != nil {
		programOptions = append(programOptions, tea.WithContext(opts.Context))
	}
	model := New(opts)
	defer model.Close()

	final, err := tea.NewProgram(model, programOptions...).Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return Result{}, err
	}
	if final != nil {
		if _, ok := final.(*Model); !ok {
			return Result{}, errors.New("unexpected tui model")
		}
	}
	return Result{History: model.History()}, nil
}
