package stdlib

import (
	"os"
	"os/exec"
	"strings"
	"time"

	. "github.com/katsu-lua/lua54/api"
)

// strftime translates the common C strftime directives os.date's format
// string uses into Go's reference-time layout.
func strftime(format string, t time.Time) string {
	var b strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' || i == len(format)-1 {
			b.WriteByte(c)
			continue
		}
		i++
		switch format[i] {
		case 'Y':
			b.WriteString(t.Format("2006"))
		case 'y':
			b.WriteString(t.Format("06"))
		case 'm':
			b.WriteString(t.Format("01"))
		case 'd':
			b.WriteString(t.Format("02"))
		case 'H':
			b.WriteString(t.Format("15"))
		case 'M':
			b.WriteString(t.Format("04"))
		case 'S':
			b.WriteString(t.Format("05"))
		case 'p':
			b.WriteString(t.Format("PM"))
		case 'A':
			b.WriteString(t.Format("Monday"))
		case 'a':
			b.WriteString(t.Format("Mon"))
		case 'B':
			b.WriteString(t.Format("January"))
		case 'b':
			b.WriteString(t.Format("Jan"))
		case 'x':
			b.WriteString(t.Format("01/02/06"))
		case 'X':
			b.WriteString(t.Format("15:04:05"))
		case '%':
			b.WriteByte('%')
		default:
			b.WriteByte('%')
			b.WriteByte(format[i])
		}
	}
	return b.String()
}

var osLib = FuncReg{
	"time":      osTime,
	"date":      osDate,
	"difftime":  osDiffTime,
	"clock":     osClock,
	"remove":    osRemove,
	"rename":    osRename,
	"tmpname":   osTmpName,
	"getenv":    osGetEnv,
	"execute":   osExecute,
	"exit":      osExit,
	"setlocale": osSetLocale,
}

var startTime = time.Now()

func OpenOSLib(ls State) int {
	ls.NewLib(osLib)
	return 1
}

// os.time ([table])
// lua-5.4/src/loslib.c#os_time()
func osTime(ls State) int {
	if ls.IsNoneOrNil(1) {
		ls.PushInteger(time.Now().Unix())
	} else {
		ls.CheckType(1, TTABLE)
		sec := getField(ls, "sec", 0)
		min := getField(ls, "min", 0)
		hour := getField(ls, "hour", 12)
		day := getField(ls, "day", -1)
		month := getField(ls, "month", -1)
		year := getField(ls, "year", -1)
		t := time.Date(year, time.Month(month), day, hour, min, sec, 0, time.Local).Unix()
		ls.PushInteger(t)
	}
	return 1
}

// os.difftime(t2, t1)
func osDiffTime(ls State) int {
	t2 := ls.CheckNumber(1)
	t1 := ls.CheckNumber(2)
	ls.PushNumber(t2 - t1)
	return 1
}

// os.clock() returns a process CPU-time approximation using wall time
// since startup, since Go doesn't expose CPU time without cgo.
func osClock(ls State) int {
	ls.PushNumber(time.Since(startTime).Seconds())
	return 1
}

func setField(ls State, key string, value int) {
	ls.PushInteger(int64(value))
	ls.SetField(-2, key)
}

// os.date ([format [, time]])
// lua-5.4/src/loslib.c#os_date()
func osDate(ls State) int {
	format := ls.OptString(1, "%c")
	var t time.Time
	if ls.IsInteger(2) {
		t = time.Unix(ls.ToInteger(2), 0)
	} else {
		t = time.Now()
	}

	if format != "" && format[0] == '!' {
		format = format[1:]
		t = t.UTC()
	} else {
		t = t.Local()
	}

	if format == "*t" || format == "!*t" {
		ls.CreateTable(0, 9)
		setField(ls, "sec", t.Second())
		setField(ls, "min", t.Minute())
		setField(ls, "hour", t.Hour())
		setField(ls, "day", t.Day())
		setField(ls, "month", int(t.Month()))
		setField(ls, "year", t.Year())
		setField(ls, "wday", int(t.Weekday())+1)
		setField(ls, "yday", t.YearDay())
		ls.PushBoolean(false)
		ls.SetField(-2, "isdst")
	} else if format == "%c" {
		ls.PushString(t.Format(time.ANSIC))
	} else {
		ls.PushString(strftime(format, t))
	}

	return 1
}

// os.remove (filename)
func osRemove(ls State) int {
	filename := ls.CheckString(1)
	if err := os.Remove(filename); err != nil {
		ls.PushNil()
		ls.PushString(err.Error())
		return 2
	}
	ls.PushBoolean(true)
	return 1
}

// os.rename (oldname, newname)
func osRename(ls State) int {
	oldName := ls.CheckString(1)
	newName := ls.CheckString(2)
	if err := os.Rename(oldName, newName); err != nil {
		ls.PushNil()
		ls.PushString(err.Error())
		return 2
	}
	ls.PushBoolean(true)
	return 1
}

// os.tmpname ()
func osTmpName(ls State) int {
	f, err := os.CreateTemp("", "lua_")
	if err != nil {
		ls.Error2("unable to generate a unique filename")
	}
	name := f.Name()
	f.Close()
	ls.PushString(name)
	return 1
}

// os.getenv (varname)
func osGetEnv(ls State) int {
	key := ls.CheckString(1)
	if env, ok := os.LookupEnv(key); ok {
		ls.PushString(env)
	} else {
		ls.PushNil()
	}
	return 1
}

// os.execute ([command])
func osExecute(ls State) int {
	if ls.IsNoneOrNil(1) {
		ls.PushBoolean(true)
		return 1
	}
	cmdline := ls.CheckString(1)
	cmd := exec.Command("sh", "-c", cmdline)
	err := cmd.Run()
	if err != nil {
		ls.PushNil()
		ls.PushString("exit")
		if exitErr, ok := err.(*exec.ExitError); ok {
			ls.PushInteger(int64(exitErr.ExitCode()))
		} else {
			ls.PushInteger(-1)
		}
		return 3
	}
	ls.PushBoolean(true)
	ls.PushString("exit")
	ls.PushInteger(0)
	return 3
}

// os.exit ([code [, close]])
func osExit(ls State) int {
	if ls.IsBoolean(1) {
		if ls.ToBoolean(1) {
			os.Exit(0)
		} else {
			os.Exit(1)
		}
	} else {
		code := ls.OptInteger(1, 0)
		os.Exit(int(code))
	}
	return 0
}

// os.setlocale ([locale [, category]]) is a no-op stub; Go has no libc
// locale concept to switch.
func osSetLocale(ls State) int {
	ls.PushString("C")
	return 1
}
