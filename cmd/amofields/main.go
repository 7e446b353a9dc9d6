package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/xavierca1/ligue-leads/internal/config"
	"github.com/xavierca1/ligue-leads/internal/infra/integration/amocrm"
	"github.com/xavierca1/ligue-leads/internal/infra/metadata"
	"github.com/xavierca1/ligue-leads/internal/logging"
)

// amofields é o utilitário que o operador usa para descobrir os IDs
// numéricos (campos, funis, etapas, usuários) que vão para o .env.
func main() {
	cfg, err := config.LoadMetadataOnly()
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	closeLog, err := logging.Setup(cfg.LogFile)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	defer closeLog()

	client := amocrm.NewClient(cfg.Token, amocrm.AccountURL(cfg.Subdomain, cfg.BaseDomain))
	cache := metadata.NewCache(cfg.MetadataFile, client)

	root := &cobra.Command{
		Use:           "amofields",
		Short:         "Consulta IDs de campos, funis e usuários do AmoCRM",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		refreshCmd(cache),
		fieldsCmd(cache, "leads", "Lista os campos customizados de leads"),
		fieldsCmd(cache, "contacts", "Lista os campos customizados de contatos"),
		fieldsCmd(cache, "companies", "Lista os campos customizados de empresas"),
		pipelinesCmd(cache),
		usersCmd(cache),
		findFieldCmd(cache),
		findStatusCmd(cache),
		findUserCmd(cache),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func refreshCmd(cache *metadata.Cache) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Rebusca todos os metadados do CRM e regrava o cache local",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Atualizando caches...")
			if err := cache.Refresh(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Caches atualizados")
			return nil
		},
	}
}

func fieldsCmd(cache *metadata.Cache, entity, short string) *cobra.Command {
	return &cobra.Command{
		Use:   entity,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := cache.Current()
			if err != nil {
				return err
			}

			var fields []amocrm.CustomField
			switch entity {
			case "leads":
				fields = snap.LeadFields
			case "contacts":
				fields = snap.ContactFields
			case "companies":
				fields = snap.CompanyFields
			}

			fmt.Printf("=== Campos de %s ===\n", entity)
			for _, f := range fields {
				fmt.Printf("%d: %s\n", f.ID, f.Name)
			}
			return nil
		},
	}
}

func pipelinesCmd(cache *metadata.Cache) *cobra.Command {
	return &cobra.Command{
		Use:   "pipelines",
		Short: "Lista os funis e as etapas de cada um",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := cache.Current()
			if err != nil {
				return err
			}

			fmt.Println("=== Funis e etapas ===")
			for _, p := range snap.Pipelines {
				fmt.Printf("\nFunil: %d - %s\n", p.ID, p.Name)
				for _, s := range p.Statuses {
					fmt.Printf("    %d: %s\n", s.ID, s.Name)
				}
			}
			return nil
		},
	}
}

func usersCmd(cache *metadata.Cache) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "Lista os usuários da conta",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := cache.Current()
			if err != nil {
				return err
			}

			fmt.Println("=== Usuários ===")
			for _, u := range snap.Users {
				fmt.Printf("%d: %s (%s)\n", u.ID, u.FullName(), u.Email)
			}
			return nil
		},
	}
}

func findFieldCmd(cache *metadata.Cache) *cobra.Command {
	return &cobra.Command{
		Use:   "field <leads|contacts|companies> <nome>",
		Short: "Procura o ID de um campo pelo nome",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cache.FieldID(args[0], args[1])
			if err != nil {
				// "não encontrado" é resultado, não falha do processo
				if metadata.IsLookupError(err) {
					fmt.Println(err)
					return nil
				}
				return err
			}
			fmt.Printf("Campo encontrado: %d (%s)\n", id, args[1])
			return nil
		},
	}
}

func findStatusCmd(cache *metadata.Cache) *cobra.Command {
	return &cobra.Command{
		Use:   "status <pipeline_id> <nome>",
		Short: "Procura o ID de uma etapa pelo nome dentro de um funil",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipelineID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("pipeline_id inválido: %q", args[0])
			}

			id, err := cache.StatusID(pipelineID, args[1])
			if err != nil {
				if metadata.IsLookupError(err) {
					fmt.Println(err)
					return nil
				}
				return err
			}
			fmt.Printf("Etapa encontrada: %d (%s)\n", id, args[1])
			return nil
		},
	}
}

func findUserCmd(cache *metadata.Cache) *cobra.Command {
	return &cobra.Command{
		Use:   "user <nome>",
		Short: "Procura o ID de um usuário pelo nome",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cache.UserID(args[0])
			if err != nil {
				if metadata.IsLookupError(err) {
					fmt.Println(err)
					return nil
				}
				return err
			}
			fmt.Printf("Usuário encontrado: %d (%s)\n", id, args[0])
			return nil
		},
	}
}
