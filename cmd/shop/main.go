package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/ariefcatur/go-storefront/internal/admin"
	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/checkout"
	"github.com/ariefcatur/go-storefront/internal/config"
	"github.com/ariefcatur/go-storefront/internal/httpx"
	"github.com/ariefcatur/go-storefront/internal/logger"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/ariefcatur/go-storefront/internal/session"
)

type shop struct {
	catalog  *catalog.Client
	fetcher  *catalog.Fetcher
	cart     *cart.Store
	checkout *checkout.Submitter
	session  *session.Holder
	admin    *admin.Controller
	lines    chan string
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Get(cfg.Debug)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	api := httpx.NewClient(cfg.BackendURL, cfg.HTTPTimeout)

	var store session.TokenStore = &session.FileStore{Path: cfg.TokenFile}
	if cfg.RedisAddr != "" {
		rdb := redisx.New(cfg.RedisAddr)
		defer rdb.Close()
		store = redisx.NewTokenStore(rdb)
	}
	holder := session.NewHolder(api, store)

	catalogClient := catalog.NewClient(api)
	cartStore := cart.New()
	s := &shop{
		catalog:  catalogClient,
		fetcher:  catalog.NewFetcher(catalogClient, nil),
		cart:     cartStore,
		checkout: checkout.NewSubmitter(api, cartStore),
		session:  holder,
		admin:    admin.NewController(api, catalogClient, holder),
		lines:    make(chan string),
	}
	defer s.fetcher.Close()

	// stdin reads cannot be interrupted, so a goroutine feeds lines into a
	// channel and the loop selects on the context instead.
	go func() {
		defer close(s.lines)
		in := bufio.NewScanner(os.Stdin)
		for in.Scan() {
			select {
			case s.lines <- in.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	group, gCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		defer cancel()
		return s.run(gCtx)
	})
	if err := group.Wait(); err != nil && err != context.Canceled {
		log.Error().Err(err).Msg("shop stopped")
	}
}

func (s *shop) readLine(ctx context.Context) (string, bool) {
	select {
	case <-ctx.Done():
		return "", false
	case line, ok := <-s.lines:
		return line, ok
	}
}

func (s *shop) run(ctx context.Context) error {
	fmt.Println("storefront - type 'help' for commands")
	for {
		fmt.Printf("[cart:%d] > ", s.cart.Count())
		line, ok := s.readLine(ctx)
		if !ok {
			return ctx.Err()
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]
		switch cmd {
		case "quit", "exit":
			return nil
		case "help":
			printHelp()
		case "list":
			f := catalog.Filter{}
			if len(args) > 0 {
				f.Category = args[0]
			}
			s.browse(ctx, f)
		case "search":
			s.browse(ctx, catalog.Filter{Search: strings.Join(args, " ")})
		case "show":
			s.show(ctx, args)
		case "add":
			s.addToCart(ctx, args)
		case "cart":
			s.printCart()
		case "inc":
			if len(args) == 1 {
				s.cart.Increment(args[0])
			}
		case "dec":
			if len(args) == 1 {
				s.cart.Decrement(args[0])
			}
		case "rm":
			if len(args) == 1 {
				s.cart.Remove(args[0])
			}
		case "checkout":
			s.placeOrder(ctx)
		case "login":
			if len(args) != 2 {
				fmt.Println("usage: login <email> <password>")
				continue
			}
			s.report(s.session.Login(ctx, args[0], args[1]), "logged in")
		case "signup":
			if len(args) != 3 {
				fmt.Println("usage: signup <name> <email> <password>")
				continue
			}
			s.report(s.session.Signup(ctx, args[0], args[1], args[2]), "account created")
		case "admin":
			s.adminCmd(ctx, args)
		default:
			fmt.Printf("unknown command %q\n", cmd)
		}
	}
}

func (s *shop) browse(ctx context.Context, f catalog.Filter) {
	<-s.fetcher.Refresh(ctx, f)
	products, err := s.fetcher.Latest()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, p := range products {
		fmt.Printf("  %-36s  %-24s %-10s $%.2f  %.1f*\n", p.ID, p.Title, p.Brand, p.Price, p.Rating)
	}
	fmt.Printf("%d product(s)\n", len(products))
}

func (s *shop) show(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Println("usage: show <id>")
		return
	}
	p, err := s.catalog.Get(ctx, args[0])
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("%s by %s / $%.2f (%.1f*)\n%s\n", p.Title, p.Brand, p.Price, p.Rating, p.Description)
	for k, v := range p.Specs {
		fmt.Printf("  %s: %s\n", k, v)
	}
}

func (s *shop) addToCart(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Println("usage: add <id>")
		return
	}
	p, err := s.catalog.Get(ctx, args[0])
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	s.cart.Add(p)
	fmt.Println("added to cart:", p.Title)
}

func (s *shop) printCart() {
	switch s.cart.State() {
	case cart.StateLoading:
		fmt.Println("loading cart...")
		return
	case cart.StateEmpty:
		fmt.Println("your cart is empty")
		return
	}
	for _, l := range s.cart.Lines() {
		fmt.Printf("  %-36s  %-24s x%d  $%.2f\n", l.ID, l.Title, l.Quantity, l.Subtotal())
	}
	fmt.Printf("total: $%.2f\n", s.cart.DisplayTotal())
}

func (s *shop) placeOrder(ctx context.Context) {
	if s.cart.State() != cart.StatePopulated {
		fmt.Println("your cart is empty")
		return
	}
	form := checkout.NewDeliveryForm()
	form.Name = s.prompt(ctx, "Name")
	form.Address = s.prompt(ctx, "Address")
	form.Phone = s.prompt(ctx, "Phone")
	if pm := s.prompt(ctx, "Payment (COD/Card/UPI)"); pm != "" {
		form.PaymentMethod = checkout.PaymentMethod(pm)
	}

	conf, err := s.checkout.Submit(ctx, form)
	if err != nil {
		fmt.Println("order failed:", err)
		return
	}
	// server total, not the advisory client one
	fmt.Printf("order placed! id=%s total=$%.2f\n", conf.OrderID, conf.Total)
}

func (s *shop) adminCmd(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("usage: admin add | admin del <id> | admin stats | admin dashboard")
		return
	}
	switch args[0] {
	case "add":
		draft := admin.ProductDraft{
			Title:       s.prompt(ctx, "Title"),
			Brand:       s.prompt(ctx, "Brand"),
			Category:    s.prompt(ctx, "Category (Mobiles/Laptops/Accessories/Fashion)"),
			Images:      []string{s.prompt(ctx, "Image URL")},
			Description: s.prompt(ctx, "Description"),
		}
		if price, err := strconv.ParseFloat(s.prompt(ctx, "Price"), 64); err == nil {
			draft.Price = price
		} else {
			fmt.Println("error: price must be numeric")
			return
		}
		p, err := s.admin.AddProduct(ctx, draft)
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Println("product added:", p.ID)
		s.refreshDashboard(ctx)
	case "del":
		if len(args) != 2 {
			fmt.Println("usage: admin del <id>")
			return
		}
		if err := s.admin.DeleteProduct(ctx, args[1]); err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Println("deleted")
		s.refreshDashboard(ctx)
	case "stats":
		stats, err := s.admin.LoadStats(ctx)
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Printf("users=%d orders=%d products=%d\n", stats.Users, stats.Orders, stats.Products)
	case "dashboard":
		s.refreshDashboard(ctx)
	default:
		fmt.Printf("unknown admin command %q\n", args[0])
	}
}

func (s *shop) refreshDashboard(ctx context.Context) {
	d, err := s.admin.Refresh(ctx)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("users=%d orders=%d products=%d\n", d.Stats.Users, d.Stats.Orders, d.Stats.Products)
	for _, p := range d.Products {
		fmt.Printf("  %-36s  %-24s $%.2f\n", p.ID, p.Title, p.Price)
	}
}

func (s *shop) prompt(ctx context.Context, label string) string {
	fmt.Printf("%s: ", label)
	line, _ := s.readLine(ctx)
	return strings.TrimSpace(line)
}

func (s *shop) report(err error, ok string) {
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(ok)
}

func printHelp() {
	fmt.Print(`commands:
  list [category]            browse the catalog
  search <text>              search by title/brand
  show <id>                  product detail
  add <id>                   add product to cart
  cart                       show cart
  inc|dec|rm <id>            change a cart line
  checkout                   place the order
  login <email> <password>
  signup <name> <email> <password>
  admin add|del|stats|dashboard
  quit
`)
}
