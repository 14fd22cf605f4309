// Package cli implementa la sesion interactiva de linea de comandos.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"villager-registry/internal/domain"
	"villager-registry/internal/service"
)

// Command es el comando reconocido en una linea de entrada.
type Command int

const (
	CommandNone Command = iota
	CommandAdd
	CommandRead
	CommandChange
	CommandQuit
)

const (
	addUsage = "Please provide arguments in the following order: name, birthday season, birthday day, bachelor status, best gift.\n" +
		"For example, for bachelorette Abigail this would be: add Abigail fall 13 true Amethyst"
	readUsage   = "Provide an argument, like 'all' to read all characters or 'Abigail' to read a specific character."
	changeUsage = "Please provide the name of the character, the name of the value you want to change, then the new value.\n" +
		"For example: change Abigail birthday_season summer"
	fieldNames = "The following value names are available: name, birthday_season, birthday_day, is_bachelor, best_gift"
	banner     = "•°•°•°•°•°•°•°•°•°•°•°•°•°•°•°•°•°•°•"
)

// Session lee comandos de in y escribe respuestas en out hasta "quit" o EOF.
type Session struct {
	in         *bufio.Reader
	out        io.Writer
	characters *service.CharacterService
	logger     *zap.Logger
}

func NewSession(in io.Reader, out io.Writer, characters *service.CharacterService, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		in:         bufio.NewReader(in),
		out:        out,
		characters: characters,
		logger:     logger,
	}
}

// Run procesa lineas hasta quit. Los errores de un comando se informan y el
// loop sigue; solo devuelve error si falla la lectura.
func (s *Session) Run(ctx context.Context) error {
	s.println("Welcome! Available commands: add, read, change, quit.")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(s.out, "> ")
		line, err := s.in.ReadString('\n')
		if strings.TrimSpace(line) != "" {
			if s.Execute(ctx, line) == CommandQuit {
				return nil
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("leer input: %w", err)
		}
	}
}

// Execute interpreta una linea y devuelve el comando ejecutado.
func (s *Session) Execute(ctx context.Context, line string) Command {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return CommandNone
	}
	args := fields[1:]
	switch strings.ToLower(fields[0]) {
	case "add":
		s.add(ctx, args)
		return CommandAdd
	case "read":
		s.read(ctx, args)
		return CommandRead
	case "change":
		s.change(ctx, args)
		return CommandChange
	case "quit":
		s.println("Quitting the program.")
		return CommandQuit
	default:
		s.println("Command does not exist.")
		return CommandNone
	}
}

func (s *Session) add(ctx context.Context, args []string) {
	if len(args) < 5 {
		s.printf("I need 5 arguments, but you only entered %d.\n", len(args))
		s.println(addUsage)
		return
	}
	character, err := s.characters.CreateCharacter(ctx, service.CharacterInput{
		Name:           args[0],
		BirthdaySeason: args[1],
		BirthdayDay:    args[2],
		IsBachelor:     args[3],
		BestGift:       strings.Join(args[4:], " "),
	})
	if err != nil {
		s.reportError(err)
		return
	}
	s.framed(fmt.Sprintf("Added %s to the database!", character.Name))
}

func (s *Session) read(ctx context.Context, args []string) {
	chars, err := s.characters.Lookup(ctx, strings.Join(args, " "))
	if err != nil {
		s.reportError(err)
		return
	}
	for _, c := range chars {
		s.printCharacter(c)
	}
}

func (s *Session) change(ctx context.Context, args []string) {
	if len(args) < 3 {
		s.printf("I need 3 arguments, but you only entered %d.\n", len(args))
		s.println(changeUsage)
		s.println(fieldNames)
		return
	}
	field, err := domain.ParseField(args[1])
	if err != nil {
		s.println("Couldn't recognize the value name you typed!")
		s.println(fieldNames)
		return
	}
	req := service.SingleFieldChange(args[0], field, strings.Join(args[2:], " "))
	if _, err := s.characters.ChangeCharacter(ctx, req); err != nil {
		s.reportError(err)
		return
	}
	s.framed("The change took place! Try 'read' with the character's name to check it out.")
}

func (s *Session) reportError(err error) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		s.printf("Please provide a proper value for '%s'. I received %q, %s.\n", vErr.Field, vErr.Value, vErr.Allowed)
	case errors.Is(err, service.ErrUsage):
		s.println(readUsage)
	case errors.Is(err, service.ErrCharacterNotFound):
		s.framed("Sorry, I can't find that character in the database!")
	case errors.Is(err, service.ErrCharacterExists):
		s.framed("A character with that name already exists.")
	case errors.Is(err, service.ErrNoChangeRequested):
		s.println(changeUsage)
	case errors.Is(err, service.ErrStorageUnavailable):
		s.framed("The database is not reachable right now. Please try again.")
	default:
		s.logger.Error("cli command failed", zap.Error(err))
		s.framed(err.Error())
	}
}

func (s *Session) printCharacter(c domain.Character) {
	bachelor := "no"
	if c.IsBachelor {
		bachelor = "yes"
	}
	s.printf("%s\n  Birthday:  %s %d\n  Bachelor:  %s\n  Best gift: %s\n", c.Name, c.BirthdaySeason, c.BirthdayDay, bachelor, c.BestGift)
}

func (s *Session) framed(msg string) {
	s.printf("%s\n\n %s\n\n%s\n", banner, msg, banner)
}

func (s *Session) println(msg string) {
	fmt.Fprintln(s.out, msg)
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}
