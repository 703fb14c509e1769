package main

import (
	"github.com/spf13/cobra"

	"mindset-backend/internal/db"
	"mindset-backend/internal/repository"
	"mindset-backend/internal/seed"
	"mindset-backend/internal/service"
)

func newSeedCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file>",
		Short: "Load organizations, users, assessments and coaching tips from YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.initialize(); err != nil {
				return err
			}
			defer a.log.Sync()

			gdb := db.GetDB()
			if err := db.Migrate(gdb); err != nil {
				return err
			}
			f, err := seed.ReadFile(args[0])
			if err != nil {
				return err
			}

			assessments, err := service.NewAssessmentService(repository.NewAssessmentRepository(gdb), a.cfg.Cache.AssessmentSnapshots, nil)
			if err != nil {
				return err
			}
			s := &seed.Seeder{
				Users:         repository.NewUserRepository(gdb),
				Organizations: service.NewOrganizationService(repository.NewOrganizationRepository(gdb)),
				Assessments:   assessments,
				Coaching:      service.NewCoachingService(repository.NewCoachingRepository(gdb), assessments),
				Log:           a.log,
			}
			_, err = s.Apply(cmd.Context(), f)
			return err
		},
	}
}
