package view

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"lifegrid/src/universe"
	"strings"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"
)

type keyBindings struct {
	key      interface{}
	name     string
	descr    string
	handler  func(v *gocui.View) error
	viewName string
}

//ConsoleUI is the interactive terminal view
//it redraws the field every frame interval from the universe snapshot and translates keys and clicks to the universe requests
type ConsoleUI struct {
	u          universe.Universe
	g          *gocui.Gui
	k          []keyBindings
	liveFiller string
	deadFiller string
	seed       int64
}

var (
	runningStateDescr = map[universe.RunningState]string{
		universe.RunningStatePaused:  aurora.Colorize("paused", aurora.BlueFg).String(),
		universe.RunningStateRunning: aurora.Colorize("running", aurora.CyanFg).String(),
	}
)

//NewViewTerminal creates the terminal UI, fails if the terminal can't be initialized
func NewViewTerminal() (*ConsoleUI, error) {

	var err error
	t := ConsoleUI{
		liveFiller: aurora.Green("█").BgBrightGreen().String(),
		deadFiller: "░",
		seed:       time.Now().UnixNano(),
	}

	t.g, err = gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return nil, fmt.Errorf("init terminal: %w", err)
	}

	t.g.Mouse = true
	t.k = []keyBindings{
		{gocui.KeyCtrlC,
			"^C",
			"Exit",
			t.cmdQuit,
			""},
		{'q',
			"Q",
			"Exit",
			t.cmdQuit,
			""},
		{gocui.KeySpace,
			"SPACE",
			"Run/Pause",
			t.cmdToggleRun,
			""},
		{'s',
			"S",
			"Next step",
			t.cmdNextRound,
			""},
		{'p',
			"P",
			"Pause",
			t.cmdPause,
			""},
		{'c',
			"C",
			"Clear",
			t.cmdClear,
			""},
		{'w',
			"W",
			"Settle with random",
			t.cmdSettleWithRandom,
			""},
		{gocui.MouseLeft,
			"MOUSE",
			"Settle the cell",
			t.cmdMouseClick,
			"battlefield"},
	}
	t.g.SetManagerFunc(t.layout)

	if err = t.initKeyBindings(t.k); err != nil {
		t.g.Close()
		return nil, err
	}

	return &t, nil
}

func (t *ConsoleUI) initKeyBindings(k []keyBindings) error {
	for _, kb := range k {
		h := kb.handler
		if err := t.g.SetKeybinding(kb.viewName, kb.key, gocui.ModNone, func(gui *gocui.Gui, view *gocui.View) error { return h(view) }); err != nil {
			return fmt.Errorf("keybinding %v: %w", kb.name, err)
		}
	}
	return nil
}

func (t *ConsoleUI) Register(u universe.Universe) {
	t.u = u
}

//Start runs the terminal main loop until the user quits or ctx is done
func (t *ConsoleUI) Start(ctx context.Context) error {
	defer t.g.Close()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go t.frameLoop(ctx, t.u.Options().FrameInterval)
	go func() {
		<-ctx.Done()
		t.g.Update(func(g *gocui.Gui) error { return gocui.ErrQuit })
	}()

	if err := t.g.MainLoop(); err != nil && !errors.Is(err, gocui.ErrQuit) {
		return err
	}
	return nil
}

//Refresh is called by the universe on every status change
func (t *ConsoleUI) Refresh(st universe.Status) {
	t.renderStatus(st)
}

//frameLoop redraws the field every frame interval
func (t *ConsoleUI) frameLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.renderField(t.u.RequestSnapshot())
		}
	}
}

func (t *ConsoleUI) renderField(a universe.Area) {

	t.g.Update(func(g *gocui.Gui) error {
		v, e := g.View("battlefield")
		if e != nil {
			//the terminal is too small, the layout deleted the view
			return nil
		}
		v.Clear()
		maxW, maxH := v.Size()
		_, _ = fmt.Fprint(v, t.fieldText(a, maxW, maxH))
		return nil
	})
}

//fieldText draws the area as maxH lines of maxW cells at most
func (t *ConsoleUI) fieldText(a universe.Area, maxW int, maxH int) string {
	crop := false
	if a.Width > maxW || a.Height > maxH {
		crop = true
	}

	var b bytes.Buffer

	for i, l := range a.Entities {
		//discard the data outside the view area
		if i >= maxH {
			break
		}
		//line feed char
		if i != 0 {
			b.WriteByte(10)
		}
		if crop && i == (maxH-1) {
			b.WriteString(aurora.Red("The field size is larger than the viewing area").BgBlack().String())
			break
		}
		for j, e := range l {
			if j >= maxW {
				break
			}
			if e {
				b.WriteString(t.liveFiller)
			} else {
				b.WriteString(t.deadFiller)
			}
		}
	}
	return b.String()
}

func (t *ConsoleUI) renderStatus(s universe.Status) {
	t.g.Update(func(g *gocui.Gui) error {
		if v, e := g.View("status"); e == nil {
			v.Clear()
			_, _ = fmt.Fprintln(v, t.renderProp("Generation", "%v", s.IterationNum))
			_, _ = fmt.Fprintln(v, t.renderProp("Live Cells", "%v", s.LiveCells))
			_, _ = fmt.Fprintln(v, t.renderProp("Evaluation time", "%v", s.IterationTime.Round(time.Microsecond)))
			_, _ = fmt.Fprintln(v, t.renderProp("Mode", "%v", runningStateDescr[s.RunningMode]))
		}
		return nil
	})
}

func (t *ConsoleUI) renderConfiguration() {
	//it needs to call Update when calls from goroutine
	t.g.Update(func(g *gocui.Gui) error {
		c := t.u.Options()
		if v, e := g.View("configuration"); e == nil {
			v.Clear()
			_, _ = fmt.Fprintln(v, t.renderProp("Dimension", "%v x %v", c.Size, c.Size))
			_, _ = fmt.Fprintln(v, t.renderProp("Interval", "%v", c.Interval))
			_, _ = fmt.Fprintln(v, t.renderProp("Frame", "%v", c.FrameInterval))
			_, _ = fmt.Fprintln(v, t.renderProp("Engine", "%v", c.Engine))
		}
		return nil
	})
}

func (t *ConsoleUI) renderProp(name string, valueformat string, values ...interface{}) string {
	return fmt.Sprintf(" "+aurora.Colorize(name, aurora.GreenFg).String()+": "+valueformat, values...)
}

func (t *ConsoleUI) layout(g *gocui.Gui) error {

	maxX, maxY := g.Size()
	leftColumnWidth := 28
	minWindowHeight := 20

	if maxY < minWindowHeight {
		if _, err := t.headerLayout(g, maxY, "Terminal height too small"); err != nil {
			if err != gocui.ErrUnknownView {
				return err
			}
		}
		_ = g.DeleteView("configuration")
		_ = g.DeleteView("status")
		_ = g.DeleteView("battlefield")
		_ = g.DeleteView("help")
		return nil

	}
	if _, err := t.headerLayout(g, 3, "Game of Life"); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
	}

	if v, err := g.SetView("configuration", 0, 3, leftColumnWidth, 3+(maxY-5-3)/2); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Configuration"
		v.Frame = true
		t.renderConfiguration()
	}

	if v, err := g.SetView("status", 0, 3+(maxY-5-3)/2+1, leftColumnWidth, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Status"
		v.Frame = true
		t.renderStatus(t.u.Status())
	}

	if v, err := g.SetView("battlefield", leftColumnWidth+1, 3, maxX-1, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Field"
		v.Frame = true
	}

	if v, err := g.SetView("help", -1, maxY-5, maxX, maxY-3); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Frame = false
		v.Wrap = true
		_, _ = fmt.Fprintln(v, t.helpText())
	}

	return nil
}

func (t *ConsoleUI) helpText() string {
	b := bytes.Buffer{}
	b.WriteString("KEYBINDINGS: ")
	for i, k := range t.k {
		if i != 0 {
			b.WriteString(", ")
		}
		b.WriteString(aurora.Green(k.name).String())
		b.WriteString(": ")
		b.WriteString(k.descr)
	}
	return b.String()
}

func (t *ConsoleUI) headerLayout(g *gocui.Gui, height int, text string) (v *gocui.View, err error) {
	maxX, _ := g.Size()
	if v, err = g.SetView("header", -1, -1, maxX+1, height); err != nil {
		if err == gocui.ErrUnknownView && v != nil {
			v.Frame = false
			v.BgColor = gocui.ColorCyan
			v.FgColor = gocui.ColorBlack
		}
	}
	if v != nil {
		v.Clear()
		pad := 0
		if maxX > len(text) {
			pad = (maxX - len(text)) / 2
		}
		_, _ = fmt.Fprintln(v, strings.Repeat("\n", height/2+1)+strings.Repeat(" ", pad)+text)
	}
	return
}

func (t *ConsoleUI) cmdQuit(_ *gocui.View) error {
	return gocui.ErrQuit
}

func (t *ConsoleUI) cmdToggleRun(_ *gocui.View) error {
	t.u.RequestToggleRun()
	return nil
}

func (t *ConsoleUI) cmdNextRound(_ *gocui.View) error {
	//ignored while running
	_ = t.u.RequestSingleStep()
	return nil
}

func (t *ConsoleUI) cmdPause(_ *gocui.View) error {
	t.u.RequestPause()
	return nil
}

func (t *ConsoleUI) cmdClear(_ *gocui.View) error {
	t.u.Clear()
	return nil
}

func (t *ConsoleUI) cmdSettleWithRandom(_ *gocui.View) error {
	t.seed++
	t.u.SettleWithRandomData(t.seed)
	return nil
}

func (t *ConsoleUI) cmdMouseClick(v *gocui.View) error {
	cx, cy := v.Cursor()
	ox, oy := v.Origin()
	//clicks outside the field are ignored
	_ = t.u.RequestSetAlive(cx+ox, cy+oy)
	return nil
}
