// Package tracker reads the plans and logs written by the tracking app and
// materialises them as one adherence.DayLogs per calendar day.
package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/adherence/internal/adherence"
	"github.com/2beens/adherence/internal/telemetry/tracing"
	"github.com/2beens/adherence/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type Repo struct {
	db querier
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

type rangeQuery struct {
	userID string
	from   time.Time // first day
	to     time.Time // last day, included
}

func (q rangeQuery) until() time.Time {
	return q.to.AddDate(0, 0, 1)
}

type loader struct {
	table string
	load  func(ctx context.Context, q rangeQuery, days *dayIndex) error
}

// DayLogs returns one DayLogs per calendar day (UTC) in [from, to], empty days included.
// A missing table reads as empty, so a partially migrated schema still scores what it has.
func (r *Repo) DayLogs(ctx context.Context, userID string, from, to time.Time) (_ []adherence.DayLogs, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.tracker.daylogs")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	q := rangeQuery{
		userID: userID,
		from:   adherence.DayOf(from),
		to:     adherence.DayOf(to),
	}
	span.SetAttributes(
		attribute.String("user", userID),
		attribute.String("from", q.from.Format(pkg.DateLayout)),
		attribute.String("to", q.to.Format(pkg.DateLayout)),
	)

	days := newDayIndex(q.from, q.to)
	for _, l := range []loader{
		{table: "nutrition_goal", load: r.loadGoals},
		{table: "meal_log", load: r.loadMeals},
		{table: "meal_plan", load: r.loadMealPlans},
		{table: "exercise_plan", load: r.loadExercisePlans},
		{table: "exercise_set", load: r.loadSets},
		{table: "sleep_log", load: r.loadSleep},
		{table: "supplement", load: r.loadSupplements},
		{table: "supplement_intake", load: r.loadIntakes},
	} {
		if err := l.load(ctx, q, days); err != nil {
			if pkg.IsUndefinedTableError(err) {
				log.Warnf("tracker table %s does not exist, reading it as empty", l.table)
				continue
			}
			if pkg.IsUndefinedColumnError(err) {
				log.Warnf("tracker table %s is behind the schema, reading it as empty: %s", l.table, err)
				continue
			}
			return nil, fmt.Errorf("load %s: %w", l.table, err)
		}
	}

	return days.logs(), nil
}

func (r *Repo) query(ctx context.Context, scan func(rows pgx.Rows) error, sql string, args ...any) error {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("rows scan: %w", err)
		}
	}
	return rows.Err()
}

func (r *Repo) loadGoals(ctx context.Context, q rangeQuery, days *dayIndex) error {
	return r.query(ctx, func(rows pgx.Rows) error {
		var g datedGoals
		if err := rows.Scan(
			&g.validFrom, &g.goals.DailyCalories, &g.goals.DailyProtein, &g.goals.DailyCarbs, &g.goals.DailyFat,
		); err != nil {
			return err
		}
		days.addGoals(g)
		return nil
	},
		`SELECT valid_from, daily_calories, daily_protein, daily_carbs, daily_fat
			FROM nutrition_goal
			WHERE user_id = $1 AND valid_from <= $2
			ORDER BY valid_from;`,
		q.userID, q.to,
	)
}

func (r *Repo) loadMeals(ctx context.Context, q rangeQuery, days *dayIndex) error {
	return r.query(ctx, func(rows pgx.Rows) error {
		var m adherence.Meal
		if err := rows.Scan(&m.MealType, &m.Protein, &m.Carbs, &m.Fat, &m.Calories, &m.LoggedAt); err != nil {
			return err
		}
		if day := days.at(m.LoggedAt); day != nil {
			day.Meals = append(day.Meals, m)
		}
		return nil
	},
		`SELECT meal_type, protein, carbs, fat, calories, logged_at
			FROM meal_log
			WHERE user_id = $1 AND logged_at >= $2 AND logged_at < $3
			ORDER BY logged_at;`,
		q.userID, q.from, q.until(),
	)
}

func (r *Repo) loadMealPlans(ctx context.Context, q rangeQuery, days *dayIndex) error {
	return r.query(ctx, func(rows pgx.Rows) error {
		var date time.Time
		var p adherence.MealPlan
		if err := rows.Scan(&date, &p.MealType, &p.Protein, &p.Carbs, &p.Fat); err != nil {
			return err
		}
		if day := days.at(date); day != nil {
			day.MealPlans = append(day.MealPlans, p)
		}
		return nil
	},
		`SELECT day, meal_type, protein, carbs, fat
			FROM meal_plan
			WHERE user_id = $1 AND day >= $2 AND day <= $3
			ORDER BY day, meal_type;`,
		q.userID, q.from, q.to,
	)
}

func (r *Repo) loadExercisePlans(ctx context.Context, q rangeQuery, days *dayIndex) error {
	return r.query(ctx, func(rows pgx.Rows) error {
		var date time.Time
		var p adherence.ExercisePlan
		if err := rows.Scan(&date, &p.ExerciseID, &p.Name, &p.TargetSets, &p.RepRangeMin, &p.RepRangeMax); err != nil {
			return err
		}
		if day := days.at(date); day != nil {
			day.Exercises = append(day.Exercises, p)
		}
		return nil
	},
		`SELECT day, exercise_id, name, target_sets, rep_range_min, rep_range_max
			FROM exercise_plan
			WHERE user_id = $1 AND day >= $2 AND day <= $3
			ORDER BY day, position, exercise_id;`,
		q.userID, q.from, q.to,
	)
}

func (r *Repo) loadSets(ctx context.Context, q rangeQuery, days *dayIndex) error {
	return r.query(ctx, func(rows pgx.Rows) error {
		var s adherence.ExerciseSet
		if err := rows.Scan(&s.ExerciseID, &s.Reps, &s.Weight, &s.RIR, &s.IsWarmup, &s.LoggedAt); err != nil {
			return err
		}
		if day := days.at(s.LoggedAt); day != nil {
			day.Sets = append(day.Sets, s)
		}
		return nil
	},
		`SELECT exercise_id, reps, weight, rir, is_warmup, logged_at
			FROM exercise_set
			WHERE user_id = $1 AND logged_at >= $2 AND logged_at < $3
			ORDER BY logged_at;`,
		q.userID, q.from, q.until(),
	)
}

func (r *Repo) loadSleep(ctx context.Context, q rangeQuery, days *dayIndex) error {
	return r.query(ctx, func(rows pgx.Rows) error {
		var date time.Time
		var plannedBedtime, realBedtime pgtype.Time
		var s adherence.SleepLog
		if err := rows.Scan(&date, &plannedBedtime, &realBedtime, &s.PlannedHours, &s.RealHours); err != nil {
			return err
		}
		s.PlannedBedtime = clockOf(plannedBedtime)
		s.RealBedtime = clockOf(realBedtime)
		if day := days.at(date); day != nil {
			day.Sleep = &s
		}
		return nil
	},
		`SELECT day, planned_bedtime, real_bedtime, planned_hours, real_hours
			FROM sleep_log
			WHERE user_id = $1 AND day >= $2 AND day <= $3
			ORDER BY day;`,
		q.userID, q.from, q.to,
	)
}

func (r *Repo) loadSupplements(ctx context.Context, q rangeQuery, days *dayIndex) error {
	return r.query(ctx, func(rows pgx.Rows) error {
		var s adherence.Supplement
		if err := rows.Scan(&s.ID, &s.Name, &s.Active); err != nil {
			return err
		}
		days.addSupplement(s)
		return nil
	},
		`SELECT id, name, active FROM supplement WHERE user_id = $1 ORDER BY id;`,
		q.userID,
	)
}

func (r *Repo) loadIntakes(ctx context.Context, q rangeQuery, days *dayIndex) error {
	return r.query(ctx, func(rows pgx.Rows) error {
		var in adherence.SupplementIntake
		if err := rows.Scan(&in.SupplementID, &in.TakenAt); err != nil {
			return err
		}
		if day := days.at(in.TakenAt); day != nil {
			day.Intakes = append(day.Intakes, in)
		}
		return nil
	},
		`SELECT supplement_id, taken_at
			FROM supplement_intake
			WHERE user_id = $1 AND taken_at >= $2 AND taken_at < $3
			ORDER BY taken_at;`,
		q.userID, q.from, q.until(),
	)
}

func clockOf(t pgtype.Time) adherence.Clock {
	minutes := int(t.Microseconds / int64(time.Minute/time.Microsecond))
	return adherence.Clock{Hour: minutes / 60 % 24, Minute: minutes % 60}
}
