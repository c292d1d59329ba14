package main

import (
	"fmt"
	"strings"
	"taskhub/domain/dto"
	"taskhub/domain/models"
	"taskhub/pkg/syncclient"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func (a *app) loginCmd() *cobra.Command {
	var apiURL, password string

	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Log in and store the token in the config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if apiURL != "" {
				a.cfg.APIURL = apiURL
			}
			api := syncclient.NewHTTPTaskAPI(a.cfg.APIURL, "")
			auth, err := api.Login(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			a.cfg.Token = auth.Token
			if err := saveConfig(a.configPath, a.cfg); err != nil {
				return err
			}
			fmt.Printf("Logged in as %s (token expires %s)\n", auth.User.Username, time.Unix(auth.ExpiresAt, 0).Format(time.RFC1123))
			return nil
		},
	}

	cmd.Flags().StringVar(&apiURL, "api", "", "API base URL")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func (a *app) lsCmd() *cobra.Command {
	var filter dto.TaskFilterRequest
	var search string

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List top-level tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}
			if filter.ProjectID == "" {
				filter.ProjectID = a.cfg.ProjectID
			}

			var tasks []dto.TaskResponse
			if search != "" {
				tasks, err = api.SearchTasks(cmd.Context(), search)
			} else {
				tasks, err = api.ListTasks(cmd.Context(), &filter)
			}
			if err != nil {
				return err
			}
			printResponses(tasks)
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.ProjectID, "project", "", "Project id (defaults to project_id from config)")
	cmd.Flags().StringVar(&filter.DueDate, "due", "", "Due window: today, tomorrow, this_week, overdue")
	cmd.Flags().StringVar(&filter.Priority, "priority", "", "Priority: none, low, medium, high, urgent")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Search content and tags instead of listing")

	return cmd
}

func (a *app) addCmd() *cobra.Command {
	var draft syncclient.Draft
	var priority, due string

	cmd := &cobra.Command{
		Use:   "add <content>",
		Short: "Create a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}
			draft.Content = strings.Join(args, " ")
			if draft.ProjectID == "" {
				draft.ProjectID = a.cfg.ProjectID
			}
			draft.Priority = models.ParsePriority(priority)
			if draft.DueDate, err = parseDue(due); err != nil {
				return err
			}

			task, err := a.client(api).Create(cmd.Context(), draft)
			if err != nil {
				return err
			}
			printTask(task)
			return nil
		},
	}

	cmd.Flags().StringVar(&draft.ProjectID, "project", "", "Project id (defaults to project_id from config)")
	cmd.Flags().StringVar(&draft.ParentID, "parent", "", "Parent task id to create a subtask")
	cmd.Flags().StringVarP(&draft.Description, "description", "d", "", "Description")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "Priority: low, medium, high, urgent")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD or RFC3339)")
	cmd.Flags().StringSliceVarP(&draft.Tags, "tag", "t", nil, "Tag (repeatable)")

	return cmd
}

// doneCmd builds "done" or "undone". Both toggle only when the task is not
// already in the requested state.
func (a *app) doneCmd(completed bool) *cobra.Command {
	use, short := "done <id>", "Mark a task completed"
	if !completed {
		use, short = "undone <id>", "Mark a task not completed"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, current, err := a.fetch(cmd, args[0])
			if err != nil {
				return err
			}
			if current.IsCompleted == completed {
				printTask(current)
				return nil
			}
			task, err := a.client(api, current).ToggleComplete(cmd.Context(), current.ID)
			if err != nil {
				return err
			}
			printTask(task)
			return nil
		},
	}
}

func (a *app) editCmd() *cobra.Command {
	var content, description, priority, due string
	var tags []string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a task; only changed fields are sent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, current, err := a.fetch(cmd, args[0])
			if err != nil {
				return err
			}

			draft := current.Clone()
			flags := cmd.Flags()
			if flags.Changed("content") {
				draft.Content = content
			}
			if flags.Changed("description") {
				draft.Description = description
			}
			if flags.Changed("priority") {
				draft.Priority = models.ParsePriority(priority)
			}
			if flags.Changed("due") {
				if draft.DueDate, err = parseDue(due); err != nil {
					return err
				}
			}
			if flags.Changed("tag") {
				draft.Tags = tags
			}

			task, err := a.client(api, current).Update(cmd.Context(), draft)
			if err != nil {
				return err
			}
			printTask(task)
			return nil
		},
	}

	cmd.Flags().StringVarP(&content, "content", "c", "", "Content")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Description")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "Priority: none, low, medium, high, urgent")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD or RFC3339, empty to clear)")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "Tags (replaces the existing set)")

	return cmd
}

func (a *app) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task (subtasks are kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, current, err := a.fetch(cmd, args[0])
			if err != nil {
				return err
			}
			if err := a.client(api, current).Delete(cmd.Context(), current.ID); err != nil {
				return err
			}
			fmt.Printf("Deleted %s\n", current.ID)
			return nil
		},
	}
}

func (a *app) subCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sub <parent-id>",
		Short: "List the subtasks of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}
			parentID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid task id %q", args[0])
			}
			tasks, err := api.GetSubtasks(cmd.Context(), parentID)
			if err != nil {
				return err
			}
			printResponses(tasks)
			return nil
		},
	}
}

func (a *app) progressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress <parent-id>",
		Short: "Show how many subtasks of a task are done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}
			parentID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid task id %q", args[0])
			}
			stats, err := api.GetCompletion(cmd.Context(), parentID)
			if err != nil {
				return err
			}
			fmt.Printf("%d/%d done (%d%%)\n", stats.Completed, stats.Total, stats.Percentage)
			return nil
		},
	}
}

// fetch loads one task from the server so the sync client has a current
// entry to mutate.
func (a *app) fetch(cmd *cobra.Command, rawID string) (*syncclient.HTTPTaskAPI, syncclient.Task, error) {
	api, err := a.api()
	if err != nil {
		return nil, syncclient.Task{}, err
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, syncclient.Task{}, fmt.Errorf("invalid task id %q", rawID)
	}
	resp, err := api.GetTask(cmd.Context(), id)
	if err != nil {
		return nil, syncclient.Task{}, err
	}
	return api, syncclient.FromResponse(resp), nil
}
