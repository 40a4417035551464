package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/msousapenha/clinica-crm/internal/modules"
	"github.com/msousapenha/clinica-crm/pkg/client"
)

const usage = `uso: clinicactl [-server URL] <comando>

comandos:
  login <username>     autentica e grava a sessão local
  logout               encerra a sessão
  me                   mostra o usuário autenticado
  secoes               lista as seções liberadas para o usuário
  dashboard            mostra o resumo do dia
  pacientes            lista pacientes
  agenda               lista os agendamentos da semana
  estoque              lista produtos
  financeiro           lista lançamentos do caixa
  procedimentos        lista o catálogo
  equipe               lista profissionais
  usuarios             lista contas de acesso
`

func main() {
	server := flag.String("server", envOr("CLINICA_SERVER", "http://localhost:8080"), "endereço do servidor")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	gateway := client.NewGateway(*server)
	store := client.NewSessionStore(gateway, sessionPath())
	shell := client.NewShell(store)
	if err := shell.Boot(); err != nil {
		fmt.Fprintf(os.Stderr, "erro ao restaurar sessão: %v\n", err)
	}

	if err := run(ctx, shell, gateway, store, args); err != nil {
		fmt.Fprintf(os.Stderr, "erro: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, shell *client.Shell, gateway *client.Gateway, store *client.SessionStore, args []string) error {
	switch args[0] {
	case "login":
		if len(args) < 2 {
			return fmt.Errorf("uso: clinicactl login <username>")
		}
		senha, err := readPassword()
		if err != nil {
			return err
		}
		user, err := shell.Login(ctx, client.Credentials{Username: args[1], Senha: senha})
		if err != nil {
			return err
		}
		fmt.Printf("olá, %s (%s)\n", user.Nome, user.Cargo)
		return nil

	case "logout":
		if err := shell.Logout(ctx); err != nil {
			return err
		}
		fmt.Println("sessão encerrada")
		return nil

	case "me":
		user, ok := store.Current()
		if !ok {
			return fmt.Errorf("não autenticado; use clinicactl login")
		}
		return printJSON(user)

	case "secoes":
		sections := shell.Sections()
		if len(sections) == 0 {
			return fmt.Errorf("não autenticado; use clinicactl login")
		}
		for _, id := range sections {
			marker := "  "
			if id == shell.ActiveSection() {
				marker = "* "
			}
			fmt.Printf("%s%-15s %s\n", marker, id, modules.Label(id))
		}
		return nil

	case "dashboard":
		if err := requireSection(shell, modules.Dashboard); err != nil {
			return err
		}
		snap, err := client.FetchDashboard(ctx, shell, gateway)
		if err != nil {
			return err
		}
		return printJSON(snap)

	case "pacientes":
		if err := requireSection(shell, modules.Pacientes); err != nil {
			return err
		}
		return printList(ctx, client.NewPatientsPage(shell, gateway).List)

	case "agenda":
		if err := requireSection(shell, modules.Agenda); err != nil {
			return err
		}
		page := client.NewSchedulePage(shell, gateway)
		now := time.Now()
		page.SetWindow(now.AddDate(0, 0, -1), now.AddDate(0, 0, 7))
		return printList(ctx, page.List)

	case "estoque":
		if err := requireSection(shell, modules.Estoque); err != nil {
			return err
		}
		return printList(ctx, client.NewInventoryPage(shell, gateway))

	case "financeiro":
		if err := requireSection(shell, modules.Financeiro); err != nil {
			return err
		}
		return printList(ctx, client.NewFinancePage(shell, gateway))

	case "procedimentos":
		if err := requireSection(shell, modules.Procedimentos); err != nil {
			return err
		}
		return printList(ctx, client.NewProceduresPage(shell, gateway))

	case "equipe":
		if err := requireSection(shell, modules.Equipe); err != nil {
			return err
		}
		return printList(ctx, client.NewStaffPage(shell, gateway))

	case "usuarios":
		if err := requireSection(shell, modules.Usuarios); err != nil {
			return err
		}
		return printList(ctx, client.NewUsersPage(shell, gateway).List)

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("comando desconhecido: %s", args[0])
	}
}

func requireSection(shell *client.Shell, id modules.ID) error {
	if shell.State() != client.StateAuthenticated {
		return fmt.Errorf("não autenticado; use clinicactl login")
	}
	if !shell.SelectSection(id) {
		return fmt.Errorf("acesso negado à seção %q", id)
	}
	return nil
}

func printList[T any](ctx context.Context, view *client.ListView[T]) error {
	items, err := view.Refresh(ctx)
	if err != nil {
		return err
	}
	return printJSON(items)
}

func printJSON(v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(raw))
	return nil
}

func readPassword() (string, error) {
	fmt.Fprint(os.Stderr, "senha: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func sessionPath() string {
	if custom := os.Getenv("CLINICA_SESSION_FILE"); custom != "" {
		return custom
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".clinica", "sessao.json")
}
