package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "todoist"

const (
	LabelProjectName = "project_name"
	LabelProjectID   = "project_id"
	LabelPriority    = "priority"
	LabelSectionName = "section_name"
	LabelSectionID   = "section_id"
	LabelLabelName   = "label_name"
	LabelTimeframe   = "timeframe"
	LabelEndpoint    = "endpoint"
)

var projectLabels = []string{LabelProjectName, LabelProjectID}

// Registry owns every exporter instrument. The collection cycle is its only
// writer; scrapes read through Gather, which never overlaps a Publish.
type Registry struct {
	mu  sync.RWMutex
	reg *prometheus.Registry

	TasksTotal           *prometheus.GaugeVec
	TasksOverdue         *prometheus.GaugeVec
	TasksDueToday        *prometheus.GaugeVec
	TasksWithDueDate     *prometheus.GaugeVec
	RecurringTasks       *prometheus.GaugeVec
	PriorityTasks        *prometheus.GaugeVec
	SectionTasks         *prometheus.GaugeVec
	ProjectCollaborators *prometheus.GaugeVec
	SectionsTotal        *prometheus.GaugeVec
	CommentsTotal        *prometheus.GaugeVec
	LabelTasks           *prometheus.GaugeVec

	CompletedToday *prometheus.GaugeVec
	CompletedWeek  *prometheus.GaugeVec
	CompletedHours *prometheus.GaugeVec
	SyncCompleted  *prometheus.GaugeVec

	APIErrors      *prometheus.CounterVec
	ScrapeDuration prometheus.Gauge
	ScrapesTotal   prometheus.Counter
	LastScrape     prometheus.Gauge
}

func projectGauge(name, help string, extra ...string) *prometheus.GaugeVec {
	labels := append(append([]string{}, projectLabels...), extra...)
	return prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, labels)
}

// NewRegistry creates the instruments and registers them, together with the
// Go runtime and process collectors, on a private prometheus.Registry.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),

		TasksTotal:           projectGauge("tasks_total", "Total number of active tasks"),
		TasksOverdue:         projectGauge("tasks_overdue", "Number of overdue tasks"),
		TasksDueToday:        projectGauge("tasks_due_today", "Number of tasks due today"),
		TasksWithDueDate:     projectGauge("tasks_with_due_date", "Number of tasks with a due date"),
		RecurringTasks:       projectGauge("recurring_tasks", "Number of recurring tasks"),
		PriorityTasks:        projectGauge("priority_tasks", "Number of tasks by priority", LabelPriority),
		SectionTasks:         projectGauge("section_tasks", "Number of tasks by section", LabelSectionName, LabelSectionID),
		ProjectCollaborators: projectGauge("project_collaborators", "Number of collaborators per project"),
		SectionsTotal:        projectGauge("sections_total", "Number of sections per project"),
		CommentsTotal:        projectGauge("comments_total", "Number of comments per project"),
		LabelTasks: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "label_tasks",
			Help:      "Number of active tasks carrying each label",
		}, []string{LabelLabelName}),

		CompletedToday: projectGauge("tasks_completed_today", "Number of tasks completed today"),
		CompletedWeek:  projectGauge("tasks_completed_week", "Number of tasks completed in the trailing days window"),
		CompletedHours: projectGauge("tasks_completed_hours", "Number of tasks completed in the trailing hours window"),
		SyncCompleted:  projectGauge("sync_api_completed_tasks", "Number of completed tasks from the Sync API by timeframe", LabelTimeframe),

		APIErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_errors_total",
			Help:      "Number of API errors encountered",
		}, []string{LabelEndpoint}),
		ScrapeDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scrape_duration_seconds",
			Help:      "Time taken to collect Todoist metrics",
		}),
		ScrapesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scrapes_total",
			Help:      "Number of collection cycles run",
		}),
		LastScrape: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_scrape_timestamp_seconds",
			Help:      "Unix time the last collection cycle finished",
		}),
	}

	r.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	for _, vec := range r.snapshotVecs() {
		r.reg.MustRegister(vec)
	}
	r.reg.MustRegister(
		r.CompletedToday, r.CompletedWeek, r.CompletedHours,
		r.APIErrors, r.ScrapeDuration, r.ScrapesTotal, r.LastScrape,
	)
	return r
}

// snapshotVecs are the vectors rebuilt from scratch on every Publish. The
// per-window completed gauges are reset through completedVec.
func (r *Registry) snapshotVecs() []*prometheus.GaugeVec {
	return []*prometheus.GaugeVec{
		r.TasksTotal, r.TasksOverdue, r.TasksDueToday, r.TasksWithDueDate,
		r.RecurringTasks, r.PriorityTasks, r.SectionTasks,
		r.ProjectCollaborators, r.SectionsTotal, r.CommentsTotal,
		r.LabelTasks, r.SyncCompleted,
	}
}

func (r *Registry) completedVec(tf Timeframe) *prometheus.GaugeVec {
	switch tf {
	case Today:
		return r.CompletedToday
	case Week:
		return r.CompletedWeek
	case Hours:
		return r.CompletedHours
	}
	return nil
}

// Registerer exposes the underlying registry for handler self-metrics.
func (r *Registry) Registerer() prometheus.Registerer {
	return r.reg
}

// Gather implements prometheus.Gatherer.
func (r *Registry) Gather() ([]*dto.MetricFamily, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.reg.Gather()
}

// Publish replaces every snapshot-derived series with the content of s.
// Series for projects, sections or labels absent from s disappear.
func (r *Registry) Publish(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, vec := range r.snapshotVecs() {
		vec.Reset()
	}
	for _, tf := range Timeframes {
		r.completedVec(tf).Reset()
	}

	for _, p := range s.Projects {
		r.TasksTotal.WithLabelValues(p.Name, p.ID).Set(float64(p.Tasks))
		r.TasksOverdue.WithLabelValues(p.Name, p.ID).Set(float64(p.Overdue))
		r.TasksDueToday.WithLabelValues(p.Name, p.ID).Set(float64(p.DueToday))
		r.TasksWithDueDate.WithLabelValues(p.Name, p.ID).Set(float64(p.WithDueDate))
		r.RecurringTasks.WithLabelValues(p.Name, p.ID).Set(float64(p.Recurring))

		for i, n := range p.Priorities {
			r.PriorityTasks.WithLabelValues(p.Name, p.ID, strconv.Itoa(i+1)).Set(float64(n))
		}
		for _, sec := range p.Sections {
			r.SectionTasks.WithLabelValues(p.Name, p.ID, sec.Name, sec.ID).Set(float64(sec.Tasks))
		}

		r.ProjectCollaborators.WithLabelValues(p.Name, p.ID).Set(float64(p.Collaborators))
		r.SectionsTotal.WithLabelValues(p.Name, p.ID).Set(float64(p.SectionCount))
		r.CommentsTotal.WithLabelValues(p.Name, p.ID).Set(float64(p.Comments))

		for tf, n := range p.Completed {
			vec := r.completedVec(tf)
			if vec == nil {
				continue
			}
			vec.WithLabelValues(p.Name, p.ID).Set(float64(n))
			r.SyncCompleted.WithLabelValues(p.Name, p.ID, string(tf)).Set(float64(n))
		}
	}

	for label, n := range s.Labels {
		r.LabelTasks.WithLabelValues(label).Set(float64(n))
	}
}

// RecordAPIError counts one failed request against endpoint.
func (r *Registry) RecordAPIError(endpoint string) {
	r.APIErrors.WithLabelValues(endpoint).Inc()
}

// ObserveScrape records the duration of a finished collection cycle.
func (r *Registry) ObserveScrape(d time.Duration, finished time.Time) {
	r.ScrapeDuration.Set(d.Seconds())
	r.ScrapesTotal.Inc()
	r.LastScrape.Set(float64(finished.Unix()))
}
