// Package postgres implements the PostgreSQL persistence layer of the
// assessment engine.
package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE COURSE RESULTS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create course_results table
-- Version: 001

-- One row per (semester, course) offering. The whole processing run output
-- is stored as a JSONB document and replaced on re-processing.
CREATE TABLE IF NOT EXISTS course_results (
    course_key VARCHAR(120) PRIMARY KEY,
    run_id UUID NOT NULL,
    semester VARCHAR(60) NOT NULL,
    course_code VARCHAR(40) NOT NULL,
    document JSONB NOT NULL,
    student_count INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_student_count CHECK (student_count >= 0)
);

CREATE INDEX IF NOT EXISTS idx_course_results_semester ON course_results(semester);
CREATE INDEX IF NOT EXISTS idx_course_results_course_code ON course_results(course_code);
CREATE INDEX IF NOT EXISTS idx_course_results_updated_at ON course_results(updated_at DESC);

-- Updated_at trigger function for automatic timestamp updates
CREATE OR REPLACE FUNCTION update_updated_at_column()
RETURNS TRIGGER AS $$
BEGIN
    NEW.updated_at = NOW();
    RETURN NEW;
END;
$$ language 'plpgsql';

DROP TRIGGER IF EXISTS update_course_results_updated_at ON course_results;
CREATE TRIGGER update_course_results_updated_at
    BEFORE UPDATE ON course_results
    FOR EACH ROW
    EXECUTE FUNCTION update_updated_at_column();
`

const migration001Down = `
DROP TRIGGER IF EXISTS update_course_results_updated_at ON course_results;
DROP FUNCTION IF EXISTS update_updated_at_column();
DROP TABLE IF EXISTS course_results;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE STUDENT COURSE RECORDS
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create student_course_records table
-- Version: 002

-- One row per (student, semester, course): the student's slice of a run,
-- denormalized for fast student-centric reads (CGPA progression).
CREATE TABLE IF NOT EXISTS student_course_records (
    student_id VARCHAR(60) NOT NULL,
    course_key VARCHAR(120) NOT NULL,
    semester VARCHAR(60) NOT NULL,
    course_code VARCHAR(40) NOT NULL,
    record JSONB NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    PRIMARY KEY (student_id, course_key)
);

CREATE INDEX IF NOT EXISTS idx_student_records_student ON student_course_records(student_id);
CREATE INDEX IF NOT EXISTS idx_student_records_course ON student_course_records(course_key);
CREATE INDEX IF NOT EXISTS idx_student_records_semester ON student_course_records(semester);

DROP TRIGGER IF EXISTS update_student_records_updated_at ON student_course_records;
CREATE TRIGGER update_student_records_updated_at
    BEFORE UPDATE ON student_course_records
    FOR EACH ROW
    EXECUTE FUNCTION update_updated_at_column();
`

const migration002Down = `
DROP TRIGGER IF EXISTS update_student_records_updated_at ON student_course_records;
DROP TABLE IF EXISTS student_course_records;
`
