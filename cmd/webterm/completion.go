package main

import "fmt"

func completionMain(args []string) {
	shell := "bash"
	if len(args) > 0 && args[0] != "" {
		shell = args[0]
	}
	switch shell {
	case "bash":
		fmt.Print(bashCompletion)
	case "zsh":
		fmt.Print(zshCompletion)
	default:
		log.Fatalf("unsupported shell: %s (use bash or zsh)", shell)
	}
}

const bashCompletion = `
_webterm_completions()
{
    local cur prev
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "exec serve config completion --config --directive --no-history --inline --c --variant --log-level" -- "$cur") )
        return 0
    fi

    case "${COMP_WORDS[1]}" in
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        exec)
            COMPREPLY=( $(compgen -W "--config --directive --c --boot --width --timeout" -- "$cur") )
            ;;
        serve)
            COMPREPLY=( $(compgen -W "--config --c --addr --dir" -- "$cur") )
            ;;
        config)
            COMPREPLY=( $(compgen -W "--config --c --write" -- "$cur") )
            ;;
        *)
            COMPREPLY=( $(compgen -W "--config --directive --no-history --inline --c" -- "$cur") )
            ;;
    esac
}
complete -F _webterm_completions webterm
`

const zshCompletion = `
#compdef webterm
_webterm() {
    local -a subcmds
    subcmds=('exec:run commands without the TUI' 'serve:serve files and the command socket' 'config:print or write the effective config' 'completion:print shell completions')
    if (( CURRENT == 2 )); then
        _describe 'command' subcmds
        return
    fi
    case "$words[2]" in
        completion)
            _values 'shell' bash zsh
            ;;
        exec)
            _arguments \
                '--config[Path to config file]' \
                '--directive[Menu action title to open on startup]' \
                '--c[Config key=value override]' \
                '--boot[Run the startup sequence first]' \
                '--width[Wrap output at this many columns]' \
                '--timeout[Seconds to wait for each socket response]'
            ;;
        serve)
            _arguments \
                '--config[Path to config file]' \
                '--c[Config key=value override]' \
                '--addr[Listen address]' \
                '--dir[Directory served to clients]'
            ;;
        config)
            _arguments \
                '--config[Path to config file]' \
                '--c[Config key=value override]' \
                '--write[Write the effective config back]'
            ;;
        *)
            _arguments \
                '--config[Path to config file]' \
                '--directive[Menu action title to open on startup]' \
                '--no-history[Keep history in memory only]' \
                '--inline[Render without the alternate screen]' \
                '--c[Config key=value override]'
            ;;
    esac
}
_webterm "$@"
`
