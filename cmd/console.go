package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"study-booking/internal/blog"
	"study-booking/internal/booking"
	"study-booking/internal/catalog"
	"study-booking/internal/data/entity"
	"study-booking/internal/skeleton"
	"study-booking/pkg/kvstore"

	"go.uber.org/zap"
)

const consoleHelp = `Commands:
  list [reading|nmcle]      show rooms or classes with free seats
  open <id>                 open the booking panel for a unit
  seats                     show the seat grid of the open unit
  toggle <n>                select or unselect seat n
  name|phone|email <value>  fill in contact details
  confirm                   book the selected seats
  close                     close the panel
  blog                      show the posts
  post <title> | <content>  publish a post
  unpost <n>                delete the n-th post
  help                      show this help
  quit                      leave`

// Console is a line-oriented front end over the booking panel and the blog.
type Console struct {
	store    kvstore.Store
	listings Listings
	panel    *booking.Panel
	local    *blog.LocalBoard
	remote   *blog.RemoteBoard
	log      *zap.Logger

	remoteStarted bool

	in  io.Reader
	out io.Writer
}

// NewConsole builds a console. Exactly one of local and remote should be set;
// it decides where blog commands go.
func NewConsole(store kvstore.Store, listings Listings, local *blog.LocalBoard, remote *blog.RemoteBoard,
	in io.Reader, out io.Writer, log *zap.Logger) *Console {
	if log == nil {
		log = zap.NewNop()
	}
	return &Console{
		store:    store,
		listings: listings,
		panel:    booking.NewPanel(store, log),
		local:    local,
		remote:   remote,
		log:      log.With(zap.String("component", "console")),
		in:       in,
		out:      out,
	}
}

// Run reads commands until quit, end of input or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(c.in)
	c.printf("StudyHub booking. Type help for commands.\n> ")

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			c.printf("> ")
			continue
		}

		name, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)
		if name == "quit" || name == "exit" {
			c.panel.Close()
			return nil
		}
		c.dispatch(ctx, strings.ToLower(name), arg)
		c.printf("> ")
	}
	return scanner.Err()
}

func (c *Console) dispatch(ctx context.Context, name, arg string) {
	c.log.Debug("Console command", zap.String("command", name))

	switch name {
	case "help":
		c.printf("%s\n", consoleHelp)
	case "list":
		c.list(ctx, arg)
	case "open":
		c.open(ctx, arg)
	case "seats":
		c.seats()
	case "toggle":
		c.toggle(arg)
	case "name", "phone", "email":
		c.contact(ctx, name, arg)
	case "confirm":
		c.confirm(ctx)
	case "close":
		c.panel.Close()
		c.printf("Panel closed.\n")
	case "blog":
		c.showPosts(ctx)
	case "post":
		c.publish(ctx, arg)
	case "unpost":
		c.unpost(ctx, arg)
	default:
		c.printf("Unknown command %q. Type help for commands.\n", name)
	}
}

func (c *Console) list(ctx context.Context, arg string) {
	category := entity.CategoryReading
	if arg != "" {
		category = entity.Category(strings.ToLower(arg))
	}
	if !category.Valid() {
		c.printf("Unknown category %q: use reading or nmcle.\n", arg)
		return
	}

	units, err := c.listings.Units(ctx, category)
	switch skeleton.View(false, err, len(units) == 0) {
	case skeleton.DisplayError:
		c.printf("Could not load %s listings: %v\n", category, err)
		return
	case skeleton.DisplayEmpty:
		c.printf("No %s listings yet.\n", category)
		return
	}

	for _, u := range units {
		avail := catalog.AvailabilityOf(ctx, c.store, u)
		c.printf("  %-7s %-28s %-22s NPR %-4d seats %s\n", u.ID, u.Name, u.Time, u.PriceNPR, avail)
	}
}

func (c *Console) findUnit(ctx context.Context, id string) (entity.Unit, error) {
	var lastErr error
	for _, category := range []entity.Category{entity.CategoryReading, entity.CategoryNMCLE} {
		units, err := c.listings.Units(ctx, category)
		if u, ok := catalog.Find(units, id); ok {
			return u, nil
		}
		if err != nil {
			lastErr = err
		}
	}
	if lastErr != nil {
		return entity.Unit{}, lastErr
	}
	return entity.Unit{}, fmt.Errorf("no room or class with id %q", id)
}

func (c *Console) open(ctx context.Context, id string) {
	if id == "" {
		c.printf("Usage: open <id>\n")
		return
	}
	u, err := c.findUnit(ctx, id)
	if err != nil {
		c.printf("%v\n", err)
		return
	}
	if err := c.panel.Open(ctx, u); err != nil {
		c.printf("Cannot open %s: %v\n", id, err)
		return
	}
	c.printf("%s (%s), NPR %d per seat.\n", u.Name, u.Time, u.PriceNPR)
	c.seats()
}

func (c *Console) requireOpen() (entity.Unit, bool) {
	u, ok := c.panel.Unit()
	if !ok {
		c.printf("No panel open. Use open <id> first.\n")
	}
	return u, ok
}

// seats prints the grid row by row: a free seat shows its number, a booked
// seat XX and a selected seat **.
func (c *Console) seats() {
	u, ok := c.requireOpen()
	if !ok {
		return
	}

	seats := c.panel.Seats()
	width := len(strconv.Itoa(u.Capacity()))
	var b strings.Builder
	for r := 0; r < u.Rows; r++ {
		b.WriteString(" ")
		for col := 0; col < u.Cols; col++ {
			i := r*u.Cols + col
			switch {
			case seats.IsBooked(i):
				b.WriteString(" " + strings.Repeat("X", width))
			case c.panel.IsSelected(i):
				b.WriteString(" " + strings.Repeat("*", width))
			default:
				fmt.Fprintf(&b, " %0*d", width, i+1)
			}
		}
		b.WriteString("\n")
	}
	c.printf("%s", b.String())
	c.summary()
}

func (c *Console) summary() {
	selected := c.panel.Selected()
	labels := make([]string, len(selected))
	for i, s := range selected {
		labels[i] = strconv.Itoa(s + 1)
	}
	if len(labels) == 0 {
		labels = []string{"none"}
	}
	c.printf("Selected: %s | Total: NPR %d | Available: %d / %d\n",
		strings.Join(labels, ", "), c.panel.TotalPrice(), c.panel.Available(), c.panel.Capacity())
}

func (c *Console) toggle(arg string) {
	if _, ok := c.requireOpen(); !ok {
		return
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		c.printf("Usage: toggle <seat number>\n")
		return
	}
	if !c.panel.ToggleSeat(n - 1) {
		c.printf("Seat %d cannot be selected.\n", n)
		return
	}
	c.summary()
}

func (c *Console) contact(ctx context.Context, field, value string) {
	if _, ok := c.requireOpen(); !ok {
		return
	}
	c.panel.UpdateCustomer(ctx, func(cu booking.Customer) booking.Customer {
		switch field {
		case "name":
			cu.Name = value
		case "phone":
			cu.Phone = value
		case "email":
			cu.Email = value
		}
		return cu
	})
	c.printf("Saved %s.\n", field)
}

func (c *Console) confirm(ctx context.Context) {
	if _, ok := c.requireOpen(); !ok {
		return
	}
	receipt, err := c.panel.ConfirmBooking(ctx)
	if errors.Is(err, booking.ErrBookingRejected) {
		c.printf("Select at least one seat and enter your name and phone.\n")
		return
	}
	if err != nil {
		c.printf("Booking failed: %v\n", err)
		return
	}

	seats := make([]string, len(receipt.Seats))
	for i, s := range receipt.SeatNumbers() {
		seats[i] = strconv.Itoa(s)
	}
	c.printf("Booked seat(s) %s in %s for %s. Total NPR %d. %d seat(s) left.\n",
		strings.Join(seats, ", "), receipt.UnitName, receipt.Customer.Name, receipt.TotalPrice, receipt.Available)
}

func (c *Console) showPosts(ctx context.Context) {
	if c.remote != nil {
		if c.remoteStarted {
			c.remote.Reload()
		} else {
			c.remote.Start()
			c.remoteStarted = true
		}
		// The skeleton only stays up when ctx ends before the window closes.
		c.remote.Settle(ctx)
		snap := c.remote.Snapshot()
		switch c.remote.Display() {
		case skeleton.DisplaySkeleton:
			c.printf("Loading posts...\n")
		case skeleton.DisplayError:
			c.printf("Could not load posts: %v\n", snap.Err)
		case skeleton.DisplayEmpty:
			c.printf("No posts yet.\n")
		default:
			c.printPosts(snap.Data)
		}
		return
	}

	posts := c.local.Posts()
	if len(posts) == 0 {
		c.printf("No posts yet.\n")
		return
	}
	c.printPosts(posts)
}

func (c *Console) printPosts(posts []entity.Post) {
	for i, p := range posts {
		c.printf("%d. %s (%s)\n   %s\n", i+1, p.Title, p.CreatedAt.Format("2006-01-02 15:04"), p.Content)
	}
}

func (c *Console) publish(ctx context.Context, arg string) {
	title, content, _ := strings.Cut(arg, "|")
	draft := blog.Draft{Title: strings.TrimSpace(title), Content: strings.TrimSpace(content)}

	var err error
	if c.remote != nil {
		c.remote.SetDraft(draft)
		_, err = c.remote.Publish(ctx)
	} else {
		c.local.SetDraft(draft)
		_, err = c.local.Publish(ctx)
	}

	switch {
	case errors.Is(err, blog.ErrEmptyDraft):
		c.printf("Usage: post <title> | <content>\n")
	case err != nil:
		c.printf("Could not publish: %v\n", err)
	default:
		c.printf("Published %q.\n", draft.Title)
	}
}

func (c *Console) unpost(ctx context.Context, arg string) {
	if c.remote != nil {
		c.printf("Posts on the server are removed by an administrator.\n")
		return
	}
	n, err := strconv.Atoi(arg)
	posts := c.local.Posts()
	if err != nil || n < 1 || n > len(posts) {
		c.printf("Usage: unpost <n> with n between 1 and %d\n", len(posts))
		return
	}
	c.local.Remove(ctx, posts[n-1].ID)
	c.printf("Removed %q.\n", posts[n-1].Title)
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}
