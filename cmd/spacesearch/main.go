// Command spacesearch is a terminal version of the enhanced space search
// page: filters typed on stdin re-run the search after a short pause, and
// favorites and contact requests follow the same sign-in rules.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/adora-ads/adora-api/internal/client"
	"github.com/adora-ads/adora-api/internal/config"
	"github.com/adora-ads/adora-api/internal/model"
	"github.com/adora-ads/adora-api/internal/search"
)

const help = `commands:
  q <text>            free text (location or title)
  state <name>        state, matched against location
  type building|vehicle|all
  price <min-max>|<min>|any
  login <email> <password>
  logout
  fav <space-id>      toggle favorite
  favs                list favorites
  contact <space-id>  contact the owner
  help | quit`

func main() {
	cfg := config.LoadClientConfig()
	flag.StringVar(&cfg.BaseURL, "api", cfg.BaseURL, "API base URL")
	flag.DurationVar(&cfg.Debounce, "debounce", cfg.Debounce, "quiet period before a search runs")
	flag.Parse()

	c := client.New(cfg.BaseURL, client.NewSession(), cfg.Timeout)
	if err := run(context.Background(), c, cfg, os.Stdin, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

// shell holds the state of one interactive session.
type shell struct {
	c       *client.Client
	live    *client.LiveSearch
	favs    *client.Favorites
	filters search.Filters

	mu   sync.Mutex // guards out and last
	out  io.Writer
	last map[string]model.AdvertisingSpace
}

func run(ctx context.Context, c *client.Client, cfg config.ClientConfig, in io.Reader, out io.Writer) error {
	sh := &shell{c: c, favs: client.NewFavorites(c.Session), out: out, last: map[string]model.AdvertisingSpace{}}
	sh.live = client.NewLiveSearch(c, cfg.Debounce, client.OnUpdate(sh.render))
	defer sh.live.Close()

	sh.printf("%s\n", help)
	sh.live.SearchNow(sh.filters)

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if quit := sh.exec(ctx, strings.TrimSpace(sc.Text())); quit {
			return nil
		}
	}
	return sc.Err()
}

func (sh *shell) printf(format string, args ...any) {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	fmt.Fprintf(sh.out, format, args...)
}

func (sh *shell) notice(n *client.Notice) {
	sh.printf("[%s] %s\n", n.Title, n.Message)
}

func (sh *shell) render(u client.Update) {
	if u.Notice != nil {
		sh.notice(u.Notice)
		return
	}
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.last = make(map[string]model.AdvertisingSpace, len(u.Result.Data))
	if u.Result.Empty || len(u.Result.Data) == 0 {
		fmt.Fprintln(sh.out, "No spaces found. Try adjusting your search filters.")
		return
	}
	fmt.Fprintf(sh.out, "%d space(s) found\n", u.Result.Total)
	for _, s := range u.Result.Data {
		sh.last[s.ID] = s
		price := "price on request"
		if s.PricePerMonth != nil {
			price = fmt.Sprintf("%.2f/month", *s.PricePerMonth)
		}
		owner := ""
		if s.Owner != nil {
			owner = " by " + s.Owner.DisplayName()
		}
		fmt.Fprintf(sh.out, "  %s  %-8s %s, %s, %s%s\n", s.ID, s.SpaceType, s.Title, s.Location, price, owner)
	}
}

// exec runs one command line and reports whether the shell should exit.
func (sh *shell) exec(ctx context.Context, line string) bool {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch strings.ToLower(cmd) {
	case "":
	case "quit", "exit":
		return true
	case "help":
		sh.printf("%s\n", help)
	case "q":
		sh.filters.Query = arg
		sh.live.Update(sh.filters)
	case "state":
		sh.filters.State = arg
		sh.live.Update(sh.filters)
	case "type":
		t := model.SpaceType(strings.ToLower(arg))
		if !t.Valid() {
			t = ""
		}
		sh.filters.SpaceType = t
		sh.live.Update(sh.filters)
	case "price":
		if strings.EqualFold(arg, "any") {
			arg = ""
		}
		sh.filters.PriceRange = arg
		sh.live.Update(sh.filters)
	case "login":
		email, pass, _ := strings.Cut(arg, " ")
		if _, err := sh.c.SignIn(ctx, email, strings.TrimSpace(pass)); err != nil {
			sh.notice(client.AsNotice(err, "Login Failed"))
			return false
		}
		sh.printf("signed in as %s\n", email)
	case "logout":
		if err := sh.c.SignOut(ctx); err != nil {
			sh.notice(client.AsNotice(err, "Error"))
		}
		sh.printf("signed out\n")
	case "fav":
		on, err := sh.favs.Toggle(arg)
		var n *client.Notice
		if errors.As(err, &n) {
			sh.notice(n)
			return false
		}
		if on {
			sh.printf("added %s to favorites\n", arg)
		} else {
			sh.printf("removed %s from favorites\n", arg)
		}
	case "favs":
		sh.printf("favorites: %s\n", strings.Join(sh.favs.List(), ", "))
	case "contact":
		sh.mu.Lock()
		space, ok := sh.last[arg]
		sh.mu.Unlock()
		if !ok {
			sh.printf("unknown space %q\n", arg)
			return false
		}
		n, err := client.ContactOwner(sh.c.Session, space)
		if err != nil {
			n = client.AsNotice(err, "Error")
		}
		sh.notice(n)
	default:
		sh.printf("unknown command %q; type help\n", cmd)
	}
	return false
}
