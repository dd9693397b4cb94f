// Package bootstrap builds and runs the startup sequence of a terminal.
package bootstrap

import (
	"strings"

	"webterm/internal/config"
	"webterm/internal/logger"
	"webterm/internal/shell"
)

var log = logger.Named("bootstrap")

// Steps 根据配置生成启动脚本。
//
// static 变体先写欢迎语，再依次回显并执行 ls、cat about；socket 变体先写一行空输出，
// 再静默执行 menu。非移动端且 directive 命中某个 action 菜单项时，
// 该 action 替换最后一条启动命令并总是回显。
func Steps(cfg config.Config, mobile bool) []shell.Step {
	steps := make([]shell.Step, 0, 4)
	if cfg.IsSocket() {
		steps = append(steps, shell.Step{Write: true})
	}
	if welcome := cfg.WelcomeMarkup(); welcome != "" {
		steps = append(steps, shell.Step{Write: true, Markup: welcome})
	}

	echo := cfg.EchoStartupCommands()
	cmds := cfg.StartupCommands()
	action, ok := directiveAction(cfg, mobile)
	for i, cmd := range cmds {
		if ok && i == len(cmds)-1 {
			steps = append(steps, shell.Step{Echo: true, Command: action})
			continue
		}
		cmd = strings.TrimSpace(cmd)
		if cmd == "" {
			continue
		}
		steps = append(steps, shell.Step{Echo: echo, Command: cmd})
	}
	if ok && len(cmds) == 0 {
		steps = append(steps, shell.Step{Echo: true, Command: action})
	}
	return steps
}

func directiveAction(cfg config.Config, mobile bool) (string, bool) {
	directive := strings.TrimSpace(cfg.Directive)
	if directive == "" || mobile {
		return "", false
	}
	for _, item := range cfg.MenuItems() {
		if item.Type != "action" || item.Title != directive {
			continue
		}
		if strings.TrimSpace(item.Action) == "" {
			return "", false
		}
		return item.Action, true
	}
	log.WithField("directive", directive).Debug("directive matches no menu action")
	return "", false
}

// Run 执行启动脚本，所有步骤完成后调用 done。
func Run(d *shell.Dispatcher, cfg config.Config, layout shell.Layout, done func()) {
	mobile := layout != nil && layout.IsMobile()
	steps := Steps(cfg, mobile)
	log.WithField("variant", cfg.Variant).WithField("steps", len(steps)).Info("boot")
	d.Run(steps, done)
}
