package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/cfladder/internal/meta"
)

const bashCompletionScript = `# bash completion for cfladder
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_cfladder()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "gen stats cache completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local pipeline="--handle -u --cutoff --cache-ttl --max-pages --base-url --rate --store --bucket --prefix --profile --region --endpoint --redis-addr --redis-db --tldr"

    case "$cmd" in
        gen)
            local opts="$pipeline --out"
            ;;
        stats)
            local opts="$pipeline --division -d --color -c --filter -f --output -o --titles -t"
            ;;
        cache)
            if [[ ${COMP_CWORD} -eq 2 ]]; then
                COMPREPLY=( $(compgen -W "purge dir" -- "$cur") )
                return 0
            fi
            local opts=""
            [[ ${COMP_WORDS[2]} == purge ]] && opts="--hours --dir"
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        *)
            local opts=""
            ;;
    esac

    case "$prev" in
        --output|-o)
            COMPREPLY=( $(compgen -W "text json yaml" -- "$cur") )
            return 0
            ;;
        --store)
            COMPREPLY=( $(compgen -W "file memory s3 redis" -- "$cur") )
            return 0
            ;;
        --division|-d)
            COMPREPLY=( $(compgen -W "0 1 2 3" -- "$cur") )
            return 0
            ;;
        --profile)
            COMPREPLY=( $(compgen -W "$(sed -n 's/^\[profile \(.*\)\]$/\1/p' ~/.aws/config 2>/dev/null)" -- "$cur") )
            return 0
            ;;
        --out|--dir)
            COMPREPLY=( $(compgen -o dirnames -- "$cur") )
            return 0
            ;;
    esac

    COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    return 0
}

complete -F _cfladder cfladder
`

const zshCompletionScript = `#compdef cfladder

_cfladder() {
  local -a cmds
  cmds=(
    'gen:generate markdown ladders'
    'stats:summarize solved problems per division and rating'
    'cache:manage the local file cache'
    'completion:generate shell completion script'
  )

  local -a pipeline
  pipeline=(
  '(-u --handle)'{-u,--handle}'[Codeforces handle]:handle'
  '--cutoff[lowest contest id]:id'
  '--cache-ttl[cache freshness]:duration'
  '--max-pages[page bound]:pages'
  '--base-url[API base URL]:url'
  '--rate[gap between calls]:duration'
  '--store[cache backend]:store:(file memory s3 redis)'
  '--bucket[S3 bucket]:bucket'
  '--prefix[key prefix]:prefix'
  '--profile[AWS profile]:profile'
  '--region[AWS region]:region'
  '--endpoint[S3 endpoint]:url'
  '--redis-addr[redis host:port]:addr'
  '--redis-db[redis database]:db'
  '--tldr[show tldr page]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'cfladder commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    gen)
      _arguments -C \
        $pipeline \
        '--out[output directory]:directory:_directories'
      ;;
    stats)
      _arguments -C \
        $pipeline \
        '(-d --division)'{-d,--division}'[division]:division:(0 1 2 3)' \
        '(-c --color)'{-c,--color}'[enable colored text]' \
        '(-f --filter)'{-f,--filter}'[filters to apply]:filters' \
        '(-o --output)'{-o,--output}'[output format]:format:(text json yaml)' \
        '(-t --titles)'{-t,--titles}'[show titles]'
      ;;
    cache)
      if (( CURRENT == 3 )); then
        _values 'cache command' 'purge[remove entries older than --hours]' 'dir[print the cache directory]'
        return
      fi
      case $words[3] in
        purge)
          _arguments \
            '--hours[age in hours]:hours' \
            '--dir[cache directory]:directory:_directories'
          ;;
      esac
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _cfladder cfladder
`

func CompletionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	w := cmd.Root().Writer
	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	default:
		switch sh := os.Getenv("SHELL"); {
		case strings.HasSuffix(sh, "zsh"):
			fmt.Fprint(w, zshCompletionScript)
		case strings.HasSuffix(sh, "bash"):
			fmt.Fprint(w, bashCompletionScript)
		default:
			fmt.Fprintln(cmd.Root().ErrWriter, "usage: cfladder completion [bash|zsh]")
		}
	}
	return nil
}

func CompletionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "cfladder completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: CompletionCommandAction,
	}
}
